package validator

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

func sizeRules(r *Registry) error {
	return register(r, map[string]Builder{
		"min":     minRule,
		"max":     maxRule,
		"between": betweenRule,
	})
}

// sizeOf measures a value: characters of a string after NFC normalization,
// elements of a list or map, the value of a number. Anything else has size 0.
func sizeOf(v Value) float64 {
	switch v.kind {
	case KindString:
		return float64(utf8.RuneCountInString(norm.NFC.String(v.s)))
	case KindList, KindMap:
		return float64(v.Len())
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// sizeUnit names what sizeOf counted, for messages.
func sizeUnit(v Value) string {
	switch v.kind {
	case KindString:
		return " characters"
	case KindList, KindMap:
		return " items"
	default:
		return ""
	}
}

func minRule(p Params) (Check, error) {
	limit, err := p.Number(0)
	if err != nil {
		return nil, err
	}
	return func(f Field) Outcome {
		if sizeOf(f.Value) >= limit {
			return Pass()
		}
		return Fail(
			fmt.Sprintf("must be at least %s%s", formatNumber(limit), sizeUnit(f.Value)),
			map[string]any{"min": paramNumber(limit)},
		)
	}, nil
}

func maxRule(p Params) (Check, error) {
	limit, err := p.Number(0)
	if err != nil {
		return nil, err
	}
	return func(f Field) Outcome {
		if sizeOf(f.Value) <= limit {
			return Pass()
		}
		return Fail(
			fmt.Sprintf("must be at most %s%s", formatNumber(limit), sizeUnit(f.Value)),
			map[string]any{"max": paramNumber(limit)},
		)
	}, nil
}

func betweenRule(p Params) (Check, error) {
	if err := p.Require(2); err != nil {
		return nil, err
	}
	lo, err := p.Number(0)
	if err != nil {
		return nil, err
	}
	hi, err := p.Number(1)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: rule 'between' requires min <= max", ErrInvalidParameter)
	}
	return func(f Field) Outcome {
		if n := sizeOf(f.Value); n >= lo && n <= hi {
			return Pass()
		}
		return Fail(
			fmt.Sprintf("must be between %s and %s%s", formatNumber(lo), formatNumber(hi), sizeUnit(f.Value)),
			map[string]any{"min": paramNumber(lo), "max": paramNumber(hi)},
		)
	}, nil
}
