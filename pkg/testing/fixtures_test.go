package testing

import (
	"fmt"
	"os"
	"path/filepath"
	stdtesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockfactory/internal/id"
	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/orm"
)

const blogYAML = `
models:
  user: {}
  post:
    belongsTo:
      author: user
  comment:
    belongsTo:
      post: post
factories:
  user:
    attrs:
      name: {sequence: "user-%d"}
      admin: false
      profile: {age: 30}
    traits:
      admin:
        attrs:
          admin: true
  post:
    attrs:
      title: {sequence: "post-%d"}
      published: false
      author: {association: user}
    traits:
      published:
        attrs:
          published: true
      withComments:
        afterCreate:
          - create: comment
            amount: 2
            set:
              postId: record.id
  comment:
    attrs:
      body: hi
`

// recorder captures assertion failures instead of failing the test.
type recorder struct {
	stdtesting.TB
	errors []string
	fatal  bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.Errorf(format, args...)
	r.fatal = true
}

func TestNew_WithManifestYAML(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))
	require.NotNil(t, fx.Session())
	assert.True(t, fx.Session().HasFactory("post"))
}

func TestNew_WithManifestFile(t *stdtesting.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(blogYAML), 0o600))

	fx := New(t, WithManifest(path))
	fx.Create("user")
	fx.AssertCount(t, "users", 1)
}

func TestNew_WithDefinitions(t *stdtesting.T) {
	schema := orm.NewSchema()
	_, err := schema.Register("widget", orm.ModelSpec{})
	require.NoError(t, err)
	reg := factory.NewRegistry()
	require.NoError(t, reg.Define("widget", &factory.Definition{
		Attrs: factory.StaticAttrs(map[string]any{"color": "red"}),
	}))

	fx := New(t, WithDefinitions(schema, reg), WithDBOptions(db.WithIdentity(id.UUIDFactory)))
	w := fx.Create("widget")
	assert.Len(t, w.ID(), 36)
	AssertField(t, w, "color", "red")
}

func TestNew_BadManifestFails(t *stdtesting.T) {
	r := &recorder{}
	func() {
		defer func() { _ = recover() }()
		New(r, WithManifestYAML("models:\n  post:\n    belongsTo:\n      author: user\n"))
	}()
	assert.True(t, r.fatal)
	require.NotEmpty(t, r.errors)
	assert.Contains(t, r.errors[0], "compiling manifest")
}

func TestBuilder_CreateList(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))

	posts := fx.Make("post").
		WithTrait("published", "withComments").
		Set("title", "Hello").
		BelongsTo("author", "user", "admin").
		Times(3).
		CreateList()

	require.Len(t, posts, 3)
	for _, p := range posts {
		AssertField(t, p, "title", "Hello")
		AssertField(t, p, "published", true)
		author := fx.AssertBelongsTo(t, "post", p, "author")
		AssertField(t, author, "admin", true)
	}
	fx.AssertCount(t, "users", 3)
	fx.AssertCount(t, "comments", 6)
	fx.AssertExists(t, "comments", map[string]any{"postId": posts[1].ID()})
	fx.AssertNotExists(t, "users", map[string]any{"admin": false})

	snap := fx.Metrics()
	assert.Equal(t, int64(12), snap.CreateCount)
}

func TestBuilder_Build(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))

	attrs := fx.Make("user").SetAll(map[string]any{"name": "Ann"}).Build()
	assert.Equal(t, "Ann", attrs["name"])
	fx.AssertCount(t, "users", 0)

	list := fx.Make("user").Times(2).BuildList()
	require.Len(t, list, 2)
	assert.Equal(t, "user-2", list[1]["name"])
}

func TestBuilder_TryCreateUnknownTrait(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))

	_, err := fx.Make("post").WithTrait("nope").TryCreate()
	assert.Error(t, err)
	fx.AssertCount(t, "posts", 0)

	_, err = fx.Make("post").Times(-1).TryCreateList()
	assert.Error(t, err)
}

func TestFixtures_Reset(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))

	fx.Create("post")
	fx.Reset()
	fx.AssertCount(t, "posts", 0)
	fx.AssertCount(t, "users", 0)

	u := fx.Build("user")
	assert.Equal(t, "user-0", u["name"])
}

func TestAssertions_ReportFailures(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))
	post := fx.Create("post")
	r := &recorder{}

	fx.AssertCount(r, "posts", 2)
	fx.AssertExists(r, "posts", map[string]any{"title": "missing"})
	fx.AssertExists(r, "widgets", nil)
	fx.AssertNotExists(r, "posts", map[string]any{"title": post["title"]})
	fx.AssertBelongsTo(r, "post", post, "title")
	AssertField(r, post, "title", "other")
	AssertField(r, post, "nope", "x")

	assert.Len(t, r.errors, 7)
	assert.False(t, r.fatal)
}

func TestField(t *stdtesting.T) {
	fx := New(t, WithManifestYAML(blogYAML))
	user := fx.Create("user")

	assert.Equal(t, "user-0", Field(user, "name"))
	assert.Equal(t, "user-0", Field(user, "$.name"))
	AssertField(t, user, "profile.age", 30)
	assert.Nil(t, Field(user, "profile.missing"))
	assert.Nil(t, Field(user, "$.profile["))
}

func TestAssertJSON(t *stdtesting.T) {
	rec := map[string]any{"id": "1", "tags": []string{"a"}}
	AssertJSON(t, rec, `{"id": "1", "tags": ["a"]}`)
	AssertJSON(t, rec, map[string]any{"id": "1", "tags": []any{"a"}})

	r := &recorder{}
	AssertJSON(r, rec, `{"id": "2"}`)
	AssertJSON(r, rec, `{not json`)
	assert.Len(t, r.errors, 2)
}
