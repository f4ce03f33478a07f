package models

import (
	"errors"
	"strings"
)

// FieldError is one failed check on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error { return e.Cause }

// ValidationErrors collects field errors. The zero value is ready to use.
type ValidationErrors []FieldError

// Add records err against field. Nested ValidationErrors are flattened with
// dotted field names.
func (v *ValidationErrors) Add(field string, err error) {
	if err == nil {
		return
	}
	var nested ValidationErrors
	if errors.As(err, &nested) {
		for _, sub := range nested {
			sub.Field = joinField(field, sub.Field)
			*v = append(*v, sub)
		}
		return
	}
	*v = append(*v, FieldError{Field: field, Message: err.Error(), Cause: err})
}

// AddMessage records a failure without an underlying error.
func (v *ValidationErrors) AddMessage(field, message string) {
	if message != "" {
		*v = append(*v, FieldError{Field: field, Message: message})
	}
}

// Err returns nil when nothing was recorded.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes every cause to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, e := range v {
		if e.Cause != nil {
			out = append(out, e.Cause)
		}
	}
	return out
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}
