package resume

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"hireall/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema string

var (
	compiledSchema     *gojsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

// FieldError is a single schema violation at a document path
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema returns the embedded resume JSON schema
func Schema() string {
	return resumeSchema
}

func loadSchema() (*gojsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
	})
	return compiledSchema, compiledSchemaErr
}

// ValidateDocument checks a decoded document (maps, slices and scalars as
// produced by encoding/json or yaml.v3) against the resume schema
func ValidateDocument(doc any) error {
	schema, err := loadSchema()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeSchemaViolation, "failed to load resume schema", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.NewDocumentError(errors.ErrCodeInvalidResume, "resume document could not be validated", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fields = append(fields, FieldError{Field: field, Message: desc.Description()})
	}

	return errors.NewValidationError(errors.ErrCodeSchemaViolation, summarize(fields), nil).
		WithContext("fields", fields)
}

// FieldErrors extracts schema violations from an error returned by this package
func FieldErrors(err error) []FieldError {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return nil
	}
	fields, _ := appErr.Context["fields"].([]FieldError)
	return fields
}

func summarize(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "resume does not match schema: " + strings.Join(parts, "; ")
}
