package validator

import (
	"errors"
	"strings"
)

// ValidationError is a single failure recorded for a concrete field path.
type ValidationError struct {
	Field             string         `json:"field"`
	Rule              string         `json:"rule"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"key"`
	TranslationValues map[string]any `json:"params"`
}

// ValidationErrors is an ordered collection of failures. It satisfies error so
// a failed Result can be returned up an error chain.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, e := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Field)
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// For returns the failures of one field.
func (ve ValidationErrors) For(field string) ValidationErrors {
	var out ValidationErrors
	for _, e := range ve {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// Fields lists the failing fields in order of their first failure.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]struct{}, len(ve))
	for _, e := range ve {
		if _, ok := seen[e.Field]; !ok {
			seen[e.Field] = struct{}{}
			fields = append(fields, e.Field)
		}
	}
	return fields
}

// Rules lists the failed rule names in failure order.
func (ve ValidationErrors) Rules() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Rule
	}
	return out
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
