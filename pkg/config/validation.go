package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed manifest.schema.json
var manifestSchemaJSON string

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

// SchemaValidationError represents a single manifest validation error.
type SchemaValidationError struct {
	Path    string // JSON pointer into the manifest, e.g. "/factories/post/attrs/title"
	Message string
}

func (e SchemaValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// SchemaValidationResult collects every validation error of a manifest.
type SchemaValidationResult struct {
	Errors []SchemaValidationError
}

// IsValid returns true if there are no validation errors.
func (r *SchemaValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns a combined error message.
func (r *SchemaValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// AddError adds a validation error.
func (r *SchemaValidationResult) AddError(path, message string) {
	r.Errors = append(r.Errors, SchemaValidationError{Path: path, Message: message})
}

func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("manifest.schema.json", strings.NewReader(manifestSchemaJSON)); err != nil {
			manifestSchemaErr = fmt.Errorf("failed to add manifest schema: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile("manifest.schema.json")
	})
	return manifestSchema, manifestSchemaErr
}

// ValidateDocument checks a decoded YAML or JSON document against the
// manifest schema.
func ValidateDocument(doc any) *SchemaValidationResult {
	result := &SchemaValidationResult{}

	schema, err := compiledManifestSchema()
	if err != nil {
		result.AddError("", fmt.Sprintf("schema compilation error: %v", err))
		return result
	}

	// Convert to JSON and back so YAML-decoded values have JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		result.AddError("", fmt.Sprintf("manifest is not JSON-compatible: %v", err))
		return result
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		result.AddError("", fmt.Sprintf("manifest is not JSON-compatible: %v", err))
		return result
	}

	if err := schema.Validate(normalized); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			collectSchemaErrors(verr, result)
		} else {
			result.AddError("", err.Error())
		}
	}
	return result
}

func collectSchemaErrors(err *jsonschema.ValidationError, result *SchemaValidationResult) {
	if len(err.Causes) == 0 {
		result.AddError(err.InstanceLocation, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}
