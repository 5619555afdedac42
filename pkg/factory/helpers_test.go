package factory_test

import (
	"fmt"
	"testing"

	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/orm"
	"github.com/stretchr/testify/require"
)

// blogSchema declares user <- post <- comment, plus a reflexive
// employee.manager and a two-type cycle between egg and chicken.
func blogSchema(t *testing.T) *orm.Schema {
	t.Helper()
	s := orm.NewSchema()
	register := func(name string, spec orm.ModelSpec) {
		_, err := s.Register(name, spec)
		require.NoError(t, err)
	}
	register("user", orm.ModelSpec{HasMany: map[string]string{"posts": "post"}})
	register("post", orm.ModelSpec{
		BelongsTo: map[string]string{"author": "user"},
		HasMany:   map[string]string{"comments": "comment"},
	})
	register("comment", orm.ModelSpec{BelongsTo: map[string]string{"post": "post"}})
	register("employee", orm.ModelSpec{BelongsTo: map[string]string{"manager": "employee"}})
	register("chicken", orm.ModelSpec{BelongsTo: map[string]string{"egg": "egg"}})
	register("egg", orm.ModelSpec{BelongsTo: map[string]string{"chicken": "chicken"}})
	return s
}

func seqString(prefix string) factory.Generator {
	return func(i int) any { return fmt.Sprintf("%s-%d", prefix, i) }
}

func blogRegistry(t *testing.T) *factory.Registry {
	t.Helper()
	reg := factory.NewRegistry()
	define := func(name string, def *factory.Definition) {
		require.NoError(t, reg.Define(name, def))
	}

	define("user", &factory.Definition{
		Attrs: factory.Attrs{
			"name":  seqString("user"),
			"admin": factory.Val(false),
		},
		Traits: map[string]*factory.Trait{
			"admin": {Attrs: factory.Attrs{"admin": factory.Val(true)}},
		},
	})

	define("post", &factory.Definition{
		Attrs: factory.Attrs{
			"title":     seqString("post"),
			"published": factory.Val(false),
			"author":    factory.Assoc("user"),
		},
		Traits: map[string]*factory.Trait{
			"published": {Attrs: factory.Attrs{"published": factory.Val(true)}},
			"withComments": {
				AfterCreate: []factory.Hook{
					func(rec db.Record, s *factory.Session) error {
						_, err := s.CreateList("comment", 2, factory.Options{
							Overrides: map[string]any{"postId": rec.ID()},
						})
						return err
					},
				},
			},
		},
	})

	define("comment", &factory.Definition{
		Attrs: factory.Attrs{"body": seqString("comment")},
	})

	define("employee", &factory.Definition{
		Attrs: factory.Attrs{"name": seqString("employee")},
		Traits: map[string]*factory.Trait{
			"managed": {Attrs: factory.Attrs{"manager": factory.Assoc("employee")}},
		},
	})

	define("chicken", &factory.Definition{Attrs: factory.Attrs{"egg": factory.Assoc("egg")}})
	define("egg", &factory.Definition{Attrs: factory.Attrs{"chicken": factory.Assoc("chicken")}})
	return reg
}

func newBlogSession(t *testing.T, opts ...factory.SessionOption) *factory.Session {
	t.Helper()
	s, err := factory.NewSession(blogSchema(t), blogRegistry(t), opts...)
	require.NoError(t, err)
	return s
}
