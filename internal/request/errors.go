package request

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every missing or malformed field in one pass so a
// single edit cycle can fix the whole file.
type ValidationError struct {
	Path   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid request %s: %s", e.Path, strings.Join(parts, "; "))
}

// ParseError reports malformed JSON together with the originating file path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
