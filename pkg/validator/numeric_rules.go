package validator

import (
	"cmp"
	"fmt"
)

func numericRules(r *Registry) error {
	return register(r, map[string]Builder{
		"gt":  compareNumber("greater than", func(c int) bool { return c > 0 }),
		"gte": compareNumber("greater than or equal to", func(c int) bool { return c >= 0 }),
		"lt":  compareNumber("less than", func(c int) bool { return c < 0 }),
		"lte": compareNumber("less than or equal to", func(c int) bool { return c <= 0 }),
	})
}

// compareNumber builds a rule comparing a numeric value against the bound
// argument. Values that are not numbers or numeric strings fail.
func compareNumber(relation string, accept func(int) bool) Builder {
	return func(p Params) (Check, error) {
		limit, err := p.Number(0)
		if err != nil {
			return nil, err
		}
		message := fmt.Sprintf("must be %s %s", relation, formatNumber(limit))
		params := map[string]any{"value": paramNumber(limit)}

		return func(f Field) Outcome {
			n, ok := f.Value.Number()
			if ok && accept(cmp.Compare(n, limit)) {
				return Pass()
			}
			return Fail(message, params)
		}, nil
	}
}
