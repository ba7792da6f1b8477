package validator

import (
	"math"
	"strconv"
)

func builtinRules(r *Registry) error {
	return Group(
		presenceRules,
		typeRules,
		sizeRules,
		numericRules,
		stringRules,
		patternRules,
		choiceRules,
		comparableRules,
		formatRules,
		uuidRules,
		dateRules,
		identifierRules,
		financialRules,
	)(r)
}

// fixed builds an argument-free rule from a predicate over the value.
func fixed(message string, ok func(Value) bool) Builder {
	return func(Params) (Check, error) {
		return func(f Field) Outcome {
			if ok(f.Value) {
				return Pass()
			}
			return Fail(message, nil)
		}, nil
	}
}

// stringRule is fixed for rules that only accept strings.
func stringRule(message string, ok func(string) bool) Builder {
	return fixed(message, func(v Value) bool {
		s, isString := v.AsString()
		return isString && ok(s)
	})
}

// paramNumber renders a numeric argument for translation values: integral
// numbers as int64, the rest as float64.
func paramNumber(n float64) any {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return int64(n)
	}
	return n
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
