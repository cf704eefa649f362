package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileNotFound is returned by profile stores for unknown usernames.
var ErrProfileNotFound = errors.New("profile not found")

// ValidationError reports a profile field that could not be coerced.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q (%v): %s", e.Field, e.Value, e.Reason)
}

// SchemaMismatchError is returned when a feature vector does not carry exactly
// the columns a model was trained on, in the same order.
type SchemaMismatchError struct {
	Model    string
	Expected []string
	Got      []string
	Detail   string
}

func (e *SchemaMismatchError) Error() string {
	msg := fmt.Sprintf("schema mismatch for model %s: expected %d columns, got %d", e.Model, len(e.Expected), len(e.Got))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// NewSchemaMismatch compares two column lists and explains the first difference.
// It returns nil when they are identical.
func NewSchemaMismatch(model string, expected, got []string) *SchemaMismatchError {
	if len(expected) != len(got) {
		return &SchemaMismatchError{Model: model, Expected: expected, Got: got, Detail: missingColumns(expected, got)}
	}
	for i := range expected {
		if expected[i] != got[i] {
			return &SchemaMismatchError{
				Model:    model,
				Expected: expected,
				Got:      got,
				Detail:   fmt.Sprintf("column %d is %q, want %q", i, got[i], expected[i]),
			}
		}
	}
	return nil
}

func missingColumns(expected, got []string) string {
	have := make(map[string]struct{}, len(got))
	for _, c := range got {
		have[c] = struct{}{}
	}
	var missing []string
	for _, c := range expected {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return "unexpected extra columns"
	}
	if len(missing) > 5 {
		missing = append(missing[:5], "...")
	}
	return "missing " + strings.Join(missing, ", ")
}

// InferenceError wraps any other failure raised while running a model.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed for model %s: %v", e.Model, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
