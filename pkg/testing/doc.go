// Package testing provides a testing SDK for using mockfactory in Go tests.
//
// This package makes it easy to seed related fixture records in your tests
// with a fluent builder API over a factory session.
//
// # Basic Usage
//
// Load a manifest, create records and assert on the in-memory data:
//
//	func TestPostListing(t *testing.T) {
//	    fx := testing.New(t, testing.WithManifest("testdata/blog.yaml"))
//
//	    post := fx.Create("post", "published")
//
//	    // The author was created along with the post.
//	    author := fx.AssertBelongsTo(t, "post", post, "author")
//	    testing.AssertField(t, author, "admin", false)
//	}
//
// # Fluent Builder API
//
// The Builder collects traits, overrides and a count before creating:
//
//	posts := fx.Make("post").
//	    WithTrait("published", "withComments").
//	    Set("title", "Hello").
//	    BelongsTo("author", "user", "admin").
//	    Times(3).
//	    CreateList()
//
// # Assertions
//
//	fx.AssertCount(t, "comments", 6)
//	fx.AssertExists(t, "posts", map[string]any{"title": "Hello"})
//	fx.AssertNotExists(t, "users", map[string]any{"admin": false})
//
// Field paths passed to AssertField and Field are JSONPath expressions; a
// leading "$." may be omitted.
//
// # Resetting Between Tests
//
// Each Fixtures value owns its own session, so parallel tests never share
// records. Reset empties the data and restarts sequences within one test.
package testing
