package fault

import (
	"errors"
	"fmt"
)

// Sentinels matched by the concrete error types through Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrAssociation   = errors.New("association error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// HintError is implemented by errors that can suggest a fix.
type HintError interface {
	error
	Hint() string
}

// ConfigurationError reports a missing or inconsistent factory, trait or
// schema declaration.
type ConfigurationError struct {
	// Type is the logical record type involved.
	Type string
	// Trait is set when an unknown trait was requested.
	Trait string
	// Message describes the problem.
	Message string
	// Suggestion, when set, replaces the default hint.
	Suggestion string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Trait != "" {
		return fmt.Sprintf("%s: trait %q is not registered on the %q factory", e.msg(), e.Trait, e.Type)
	}
	if e.Type != "" {
		return fmt.Sprintf("%s (type %q)", e.msg(), e.Type)
	}
	return e.msg()
}

func (e *ConfigurationError) msg() string {
	m := e.Message
	if m == "" {
		m = "invalid configuration"
	}
	if e.Err != nil {
		m += ": " + e.Err.Error()
	}
	return m
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConfigurationError) Hint() string {
	if e.Suggestion != "" {
		return e.Suggestion
	}
	if e.Trait != "" {
		return fmt.Sprintf("Declare trait %q on the %q factory or remove it from the call.", e.Trait, e.Type)
	}
	return "Check the schema and factory definitions."
}

// AssociationError reports a relationship placeholder that cannot be resolved.
type AssociationError struct {
	Type      string
	Attribute string
	Message   string
	// Path is the chain of types being created when the error occurred.
	Path []string
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("association %q on %q: %s", e.Attribute, e.Type, e.Message)
}

// Is reports whether target is ErrAssociation.
func (e *AssociationError) Is(target error) bool { return target == ErrAssociation }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *AssociationError) Hint() string {
	if len(e.Path) > 0 {
		return "Move the association into a trait and apply it selectively, or pass the foreign key as an override."
	}
	return fmt.Sprintf("Declare %q as a belongsTo relationship on model %q.", e.Attribute, e.Type)
}

// ValidationError is returned when an argument is out of range.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Check the value passed as %q.", e.Field)
	}
	return "Check the arguments of the call."
}

// NotFoundError is returned when a collection or record does not exist.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("collection %q record %q not found", e.Collection, e.ID)
	}
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	if e.ID != "" {
		return fmt.Sprintf("Check that record %q was inserted into %q in this session.", e.ID, e.Collection)
	}
	return fmt.Sprintf("Collection %q has not been created. Insert a record or declare the model first.", e.Collection)
}

// ConflictError is returned when a record with the same id already exists.
type ConflictError struct {
	Collection string
	ID         string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("collection %q record %q already exists", e.Collection, e.ID)
}

// Is reports whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	return fmt.Sprintf("Record %q already exists. Omit the id to have one assigned.", e.ID)
}

// HintFor returns err's hint if it has one anywhere in its chain.
func HintFor(err error) string {
	var h HintError
	if errors.As(err, &h) {
		return h.Hint()
	}
	return ""
}
