package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", &ConfigurationError{Type: "post"}, ErrConfiguration},
		{"association", &AssociationError{Type: "post", Attribute: "author"}, ErrAssociation},
		{"validation", &ValidationError{Message: "bad"}, ErrValidation},
		{"not found", &NotFoundError{Collection: "posts"}, ErrNotFound},
		{"conflict", &ConflictError{Collection: "posts", ID: "1"}, ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("creating: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.NotEmpty(t, HintFor(wrapped))
		})
	}
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Type: "post", Trait: "published"}
	assert.Equal(t, `invalid configuration: trait "published" is not registered on the "post" factory`, err.Error())
	assert.Contains(t, err.Hint(), "published")

	err = &ConfigurationError{Type: "posts", Message: "no model or factory was found", Suggestion: "use post"}
	assert.Equal(t, `no model or factory was found (type "posts")`, err.Error())
	assert.Equal(t, "use post", err.Hint())
}

func TestAssociationError_Message(t *testing.T) {
	err := &AssociationError{Type: "post", Attribute: "author", Message: "not a belongsTo relationship"}
	assert.Equal(t, `association "author" on "post": not a belongsTo relationship`, err.Error())
	assert.Contains(t, err.Hint(), "belongsTo")

	err.Path = []string{"a", "b"}
	assert.Contains(t, err.Hint(), "trait")
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "negative", (&ValidationError{Message: "negative"}).Error())
	assert.Equal(t, `validation failed for field "amount": negative`, (&ValidationError{Field: "amount", Message: "negative"}).Error())
}

func TestHintFor_PlainError(t *testing.T) {
	assert.Empty(t, HintFor(errors.New("plain")))
}
