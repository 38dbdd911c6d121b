package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates the data model could not be read.
	ErrInvalidSchema = errors.New("modelgen: invalid data model")
	// ErrMissingConfig indicates a missing or malformed configuration key.
	ErrMissingConfig = errors.New("modelgen: missing configuration")
	// ErrUnresolvedReference indicates an entity reference with no target.
	ErrUnresolvedReference = errors.New("modelgen: unresolved entity reference")
	// ErrGenerationFailed indicates a rendering or output failure.
	ErrGenerationFailed = errors.New("modelgen: code generation failed")
)

// Generation phases reported by GenerationError.
const (
	PhaseRender = "render"
	PhaseMkdir  = "mkdir"
	PhaseWrite  = "write"
	PhaseFormat = "format"
)

// ConfigError represents a missing or malformed configuration key.
type ConfigError struct {
	// Option is the configuration key, e.g. "dataModelPath" or
	// "templates[1].templateName".
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("modelgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("modelgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// SchemaError represents a failure to read or decode the data model.
type SchemaError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("modelgen: schema error")
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(path string, cause error) *SchemaError {
	return &SchemaError{Path: path, Cause: cause}
}

// ReferenceError represents an entity reference that does not resolve.
type ReferenceError struct {
	From         string
	To           string
	Relationship string
	Message      string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("modelgen: reference error")
	if e.Relationship != "" {
		b.WriteString(" on relationship ")
		b.WriteString(e.Relationship)
	}
	switch {
	case e.From != "" && e.To != "":
		fmt.Fprintf(&b, " (%s -> %s)", e.From, e.To)
	case e.To != "":
		fmt.Fprintf(&b, " to %q", e.To)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(from, to, relationship, message string) *ReferenceError {
	return &ReferenceError{
		From:         from,
		To:           to,
		Relationship: relationship,
		Message:      message,
	}
}

// GenerationError represents a failure while producing one output file.
type GenerationError struct {
	Phase    string // render, mkdir, write or format
	Entity   string
	Template string
	File     string
	Cause    error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("modelgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Entity != "" {
		b.WriteString(" for entity ")
		b.WriteString(e.Entity)
	}
	if e.Template != "" {
		fmt.Fprintf(&b, " (template: %s)", e.Template)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " (file: %s)", e.File)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, entity, template, file string, cause error) *GenerationError {
	return &GenerationError{
		Phase:    phase,
		Entity:   entity,
		Template: template,
		File:     file,
		Cause:    cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
