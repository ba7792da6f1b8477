package ruleset

import "errors"

var (
	// ErrNotFound is returned when a store has no rule set under the given name.
	ErrNotFound = errors.New("ruleset not found")

	// ErrInvalidRuleset is returned when a rule set file is malformed or its
	// declarations do not compile.
	ErrInvalidRuleset = errors.New("invalid ruleset")

	// ErrInvalidName is returned for names outside [a-z0-9_-] or longer than 64 characters.
	ErrInvalidName = errors.New("invalid ruleset name")
)
