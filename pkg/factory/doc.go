// Package factory synthesizes test records from named templates and writes
// them into an in-memory db.DB.
//
// A Definition maps attribute names to values. Values are one of:
//
//   - Static: a fixed value
//   - Generator: a function of the per-type sequence number
//   - *Association: a placeholder asking for a related record to be created
//
// Traits are named partial definitions with their own after-create hooks,
// applied selectively per call.
//
// A Session ties a Registry of definitions to an orm.Schema and a db.DB. It
// owns the per-type sequence counters, so two sessions never share state.
//
// Usage:
//
//	schema := orm.NewSchema()
//	schema.Register("user", orm.ModelSpec{})
//	schema.Register("post", orm.ModelSpec{BelongsTo: map[string]string{"author": "user"}})
//
//	reg := factory.NewRegistry()
//	reg.Define("post", &factory.Definition{
//	    Attrs: factory.Attrs{
//	        "title":  factory.Generator(func(i int) any { return fmt.Sprintf("post-%d", i) }),
//	        "author": factory.Assoc("user"),
//	    },
//	})
//
//	s, _ := factory.NewSession(schema, reg)
//	post, _ := s.Create("post", factory.Options{})
//	posts, _ := s.CreateList("post", 3, factory.Options{Traits: []string{"published"}})
//	s.Reset()
package factory
