// Package config loads factory manifests.
//
// A manifest is a YAML (or JSON) document declaring models and factories:
//
//	version: "1"
//	models:
//	  user: {}
//	  post:
//	    belongsTo: {author: user}
//	factories:
//	  user:
//	    attrs:
//	      name: {sequence: "user-%d"}
//	      email: {expr: '"user" + string(i) + "@example.com"'}
//	    traits:
//	      admin:
//	        attrs: {admin: true}
//	  post:
//	    attrs:
//	      title: {sequence: "post-%d"}
//	      author: {association: user, traits: [admin]}
//	    traits:
//	      withComments:
//	        afterCreate:
//	          - create: comment
//	            amount: 2
//	            set: {postId: record.id}
//
// Attribute values are static unless they are a mapping with exactly one of
// the keys "expr", "sequence" or "association". Expressions are compiled with
// github.com/expr-lang/expr and see the sequence number as "i". Hook "set"
// expressions see the created record as "record" and the list index as "i".
//
// Manifests are validated against an embedded JSON Schema before they are
// compiled into an orm.Schema and a factory.Registry.
package config
