package validator

import (
	"math"
	"regexp"
	"strings"
)

var integerPattern = regexp.MustCompile(`^[+-]?\d+$`)

func typeRules(r *Registry) error {
	return register(r, map[string]Builder{
		"string":  fixed("must be a string", isString),
		"integer": fixed("must be an integer", isInteger),
		"numeric": fixed("must be a number", isNumeric),
		"boolean": fixed("must be true or false", isBoolean),
		"array":   fixed("must be an array", isArray),
	})
}

func isString(v Value) bool {
	return v.kind == KindString
}

// isInteger accepts integers, floats without a fractional part and integer
// strings with surrounding whitespace.
func isInteger(v Value) bool {
	switch v.kind {
	case KindInt:
		return true
	case KindFloat:
		return v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0)
	case KindString:
		return integerPattern.MatchString(strings.TrimSpace(v.s))
	default:
		return false
	}
}

func isNumeric(v Value) bool {
	_, ok := v.Number()
	return ok
}

// isBoolean accepts true, false, 0, 1 and the strings "0", "1", "true" and
// "false" in any case.
func isBoolean(v Value) bool {
	switch v.kind {
	case KindBool:
		return true
	case KindInt:
		return v.i == 0 || v.i == 1
	case KindString:
		switch strings.ToLower(v.s) {
		case "0", "1", "true", "false":
			return true
		}
	}
	return false
}

func isArray(v Value) bool {
	return v.kind == KindList || v.kind == KindMap
}
