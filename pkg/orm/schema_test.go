package orm

import (
	"errors"
	"testing"

	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	_, err := s.Register("user", ModelSpec{HasMany: map[string]string{"posts": "post"}})
	require.NoError(t, err)
	_, err = s.Register("post", ModelSpec{
		BelongsTo: map[string]string{"author": "user"},
		HasMany:   map[string]string{"comments": "comment"},
	})
	require.NoError(t, err)
	_, err = s.Register("comment", ModelSpec{BelongsTo: map[string]string{"post": "post"}})
	require.NoError(t, err)
	return s
}

func TestSchema_Register(t *testing.T) {
	s := blogSchema(t)

	m, ok := s.ModelFor("post")
	require.True(t, ok)
	assert.Equal(t, "posts", m.Collection)

	author, ok := m.AssociationFor("author")
	require.True(t, ok)
	assert.True(t, author.IsBelongsTo())
	assert.False(t, author.IsReflexive())
	assert.Equal(t, "user", author.Target)
	assert.Equal(t, "authorId", author.ForeignKey)

	comments, ok := m.AssociationFor("comments")
	require.True(t, ok)
	assert.Equal(t, HasMany, comments.Kind)
	assert.Equal(t, "commentIds", comments.ForeignKey)
}

func TestSchema_RegisterDuplicate(t *testing.T) {
	s := NewSchema()
	_, err := s.Register("post", ModelSpec{})
	require.NoError(t, err)

	_, err = s.Register("post", ModelSpec{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrConfiguration))
}

func TestSchema_RegisterInvalid(t *testing.T) {
	s := NewSchema()
	_, err := s.Register("", ModelSpec{})
	assert.True(t, errors.Is(err, fault.ErrConfiguration))

	_, err = s.Register("post", ModelSpec{
		BelongsTo: map[string]string{"author": "user"},
		HasMany:   map[string]string{"author": "user"},
	})
	assert.True(t, errors.Is(err, fault.ErrConfiguration))
}

func TestSchema_NameNormalization(t *testing.T) {
	s := NewSchema()
	_, err := s.Register("blog-post", ModelSpec{BelongsTo: map[string]string{"blog-author": "blog_user"}})
	require.NoError(t, err)

	assert.True(t, s.HasModel("blogPost"))
	assert.True(t, s.HasModel("blog_post"))
	assert.Equal(t, "blogPosts", s.ToCollectionName("blog-post"))
	assert.Equal(t, "_blogPosts", s.ToInternalCollectionName("blogPost"))

	a, ok := s.AssociationFor("blogPost", "blog-author")
	require.True(t, ok)
	assert.Equal(t, "blogUser", a.Target)
	assert.Equal(t, "blogAuthorId", a.ForeignKey)
}

func TestSchema_CustomCollectionAndForeignKey(t *testing.T) {
	s := NewSchema()
	_, err := s.Register("person", ModelSpec{
		Collection:  "humans",
		BelongsTo:   map[string]string{"manager": "person"},
		ForeignKeys: map[string]string{"manager": "managedBy"},
	})
	require.NoError(t, err)

	assert.Equal(t, "humans", s.ToCollectionName("person"))
	a, _ := s.AssociationFor("person", "manager")
	assert.Equal(t, "managedBy", a.ForeignKey)
	assert.True(t, a.IsReflexive())
}

func TestSchema_ToCollectionNameUnregistered(t *testing.T) {
	s := NewSchema()
	assert.Equal(t, "people", s.ToCollectionName("person"))
}

func TestSchema_AssociationForMissing(t *testing.T) {
	s := blogSchema(t)
	_, ok := s.AssociationFor("post", "editor")
	assert.False(t, ok)
	_, ok = s.AssociationFor("tag", "post")
	assert.False(t, ok)
}

func TestSchema_Validate(t *testing.T) {
	s := blogSchema(t)
	require.NoError(t, s.Validate())

	_, err := s.Register("tag", ModelSpec{BelongsTo: map[string]string{"category": "category"}})
	require.NoError(t, err)

	err = s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrConfiguration))
	assert.Contains(t, err.Error(), `unknown model "category"`)
	assert.Contains(t, err.Error(), `"tag"`)
}

func TestModel_BelongsToAssociations(t *testing.T) {
	s := NewSchema()
	m, err := s.Register("post", ModelSpec{
		BelongsTo: map[string]string{"editor": "user", "author": "user"},
		HasMany:   map[string]string{"tags": "tag"},
	})
	require.NoError(t, err)

	got := m.BelongsToAssociations()
	require.Len(t, got, 2)
	assert.Equal(t, "author", got[0].Key)
	assert.Equal(t, "editor", got[1].Key)
	assert.Equal(t, []string{"post"}, s.Models())
}
