package validator

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned while building a Validator and never
// while validating a document.
var (
	// ErrUnknownRule is returned when a declaration names a rule that is not registered.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrInvalidRuleSpec is returned when a rule entry has the wrong shape.
	ErrInvalidRuleSpec = errors.New("invalid rule specification")

	// ErrInvalidField is returned for malformed field patterns.
	ErrInvalidField = errors.New("invalid field name")

	// ErrInvalidRuleName is returned when registering a rule under a malformed or reserved name.
	ErrInvalidRuleName = errors.New("invalid rule name")

	// ErrDuplicateRule is returned when registering a rule name twice.
	ErrDuplicateRule = errors.New("rule already registered")

	// ErrMissingParameter is returned when a rule is declared without a required argument.
	ErrMissingParameter = errors.New("missing rule parameter")

	// ErrInvalidParameter is returned when a rule argument has the wrong type or value.
	ErrInvalidParameter = errors.New("invalid rule parameter")

	// ErrInvalidPattern is returned when a regular expression argument does not compile.
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrInvalidCondition is returned for malformed when conditions.
	ErrInvalidCondition = errors.New("invalid condition")
)

// ConfigError locates a configuration error within the declarations.
type ConfigError struct {
	Field string
	Rule  string
	Err   error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Field == "":
		return e.Err.Error()
	case e.Rule == "":
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("field %q, rule %q: %v", e.Field, e.Rule, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }
