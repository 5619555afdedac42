// Package inflect converts logical type names to collection and key names.
//
// Type names are conventionally singular ("blogPost", "blog-post"); collection
// names are camelized plurals ("blogPosts"). Pluralization rules come from
// github.com/jinzhu/inflection.
package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pluralize returns the plural form of word.
func Pluralize(word string) string {
	return inflection.Plural(word)
}

// Singularize returns the singular form of word.
func Singularize(word string) string {
	return inflection.Singular(word)
}

// Camelize joins dash, underscore or space separated words into lower camel
// case: "blog-post" becomes "blogPost", "BlogPost" becomes "blogPost".
func Camelize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	if len(parts) == 0 {
		return ""
	}

	// Casers are stateful and must not be shared between goroutines.
	titler := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	b.WriteString(lowerFirst(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(titler.String(p))
	}
	return b.String()
}

// ToCollectionName maps a logical type to its collection: "blog-post" → "blogPosts".
func ToCollectionName(typeName string) string {
	return Camelize(Pluralize(typeName))
}

// ToInternalCollectionName is the collection name used for the store's own
// bookkeeping copy: "blog-post" → "_blogPosts".
func ToInternalCollectionName(typeName string) string {
	return "_" + ToCollectionName(typeName)
}

// ToModelName maps a collection name back to its logical type: "blogPosts" → "blogPost".
func ToModelName(collection string) string {
	return Camelize(Singularize(strings.TrimPrefix(collection, "_")))
}

// ForeignKey returns the foreign-key attribute for a belongs-to key: "author" → "authorId".
func ForeignKey(attr string) string {
	return Camelize(attr) + "Id"
}

// IDsKey returns the id-list attribute for a has-many key: "comments" → "commentIds".
func IDsKey(attr string) string {
	return Camelize(Singularize(attr)) + "Ids"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
