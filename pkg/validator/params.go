package validator

import (
	"fmt"
	"math"
	"regexp"
	"slices"
)

// Params gives a rule builder typed access to its declared arguments.
type Params struct {
	rule     string
	args     []Value
	registry *Registry
}

// Rule returns the rule name the arguments were declared for.
func (p Params) Rule() string { return p.rule }

func (p Params) Len() int { return len(p.args) }

// Args returns a copy of the raw arguments.
func (p Params) Args() []Value { return slices.Clone(p.args) }

// Require fails unless at least n arguments were declared.
func (p Params) Require(n int) error {
	if len(p.args) >= n {
		return nil
	}
	if n == 1 {
		return fmt.Errorf("%w: rule '%s' requires a parameter", ErrMissingParameter, p.rule)
	}
	return fmt.Errorf("%w: rule '%s' requires %d parameters", ErrMissingParameter, p.rule, n)
}

// Value returns the i-th argument.
func (p Params) Value(i int) (Value, error) {
	if i >= len(p.args) {
		return Value{}, p.Require(i + 1)
	}
	return p.args[i], nil
}

// String returns the i-th argument as a string. Numbers and booleans are
// accepted in their string form.
func (p Params) String(i int) (string, error) {
	v, err := p.Value(i)
	if err != nil {
		return "", err
	}
	switch v.kind {
	case KindString, KindInt, KindFloat, KindBool:
		return v.Text(), nil
	default:
		return "", fmt.Errorf("%w: rule '%s' requires a string parameter", ErrInvalidParameter, p.rule)
	}
}

// Number returns the i-th argument as a number. Numeric strings are accepted.
func (p Params) Number(i int) (float64, error) {
	v, err := p.Value(i)
	if err != nil {
		return 0, err
	}
	n, ok := v.Number()
	if !ok {
		return 0, fmt.Errorf("%w: rule '%s' requires a numeric parameter, got %q", ErrInvalidParameter, p.rule, v.Text())
	}
	return n, nil
}

// Int returns the i-th argument as an integer.
func (p Params) Int(i int) (int, error) {
	n, err := p.Number(i)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: rule '%s' requires an integer parameter", ErrInvalidParameter, p.rule)
	}
	if n < math.MinInt || n >= math.MaxInt {
		return 0, fmt.Errorf("%w: rule '%s' parameter %s is out of range", ErrInvalidParameter, p.rule, formatNumber(n))
	}
	return int(n), nil
}

// Field returns the i-th argument parsed as a field reference.
func (p Params) Field(i int) (FieldPath, error) {
	v, err := p.Value(i)
	if err != nil {
		return FieldPath{}, fmt.Errorf("%w: rule '%s' requires a field name", ErrMissingParameter, p.rule)
	}
	s, ok := v.AsString()
	if !ok {
		return FieldPath{}, fmt.Errorf("%w: rule '%s' requires a field name", ErrInvalidParameter, p.rule)
	}
	return ParsePath(s)
}

// Values returns the set argument of in-style rules. A single list argument
// is expanded; otherwise every argument is a member.
func (p Params) Values() ([]Value, error) {
	values := p.args
	if len(p.args) == 1 && p.args[0].kind == KindList {
		values = p.args[0].list
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: rule '%s' requires an array of values", ErrMissingParameter, p.rule)
	}
	return slices.Clone(values), nil
}

// Regexp compiles the i-th argument as a pattern. Compiled patterns are
// cached by the registry.
func (p Params) Regexp(i int) (*regexp.Regexp, error) {
	v, err := p.Value(i)
	if err != nil {
		return nil, fmt.Errorf("%w: rule '%s' requires a regex pattern string", ErrMissingParameter, p.rule)
	}
	expr, ok := v.AsString()
	if !ok || expr == "" {
		return nil, fmt.Errorf("%w: rule '%s' requires a regex pattern string", ErrInvalidParameter, p.rule)
	}
	if p.registry == nil {
		return compilePattern(expr)
	}
	return p.registry.compile(expr)
}
