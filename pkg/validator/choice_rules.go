package validator

import (
	"maps"
	"slices"
	"strings"
)

func choiceRules(r *Registry) error {
	return register(r, map[string]Builder{
		"in":       inRule,
		"not_in":   notInRule,
		"distinct": fixed("must not contain duplicate values", isDistinct),
	})
}

// choices is the bound set of an in-style rule.
type choices []Value

func (c choices) contains(v Value) bool {
	for _, item := range c {
		if looseEqual(v, item) {
			return true
		}
	}
	return false
}

func (c choices) params() map[string]any {
	texts := make([]string, len(c))
	for i, item := range c {
		texts[i] = item.Text()
	}
	return map[string]any{"values": strings.Join(texts, ", ")}
}

// inRule accepts a scalar in the set, or a list whose every element is in
// the set.
func inRule(p Params) (Check, error) {
	values, err := p.Values()
	if err != nil {
		return nil, err
	}
	set := choices(values)
	params := set.params()

	return func(f Field) Outcome {
		if f.Value.kind == KindList {
			for _, item := range f.Value.list {
				if !set.contains(item) {
					return Fail("selected value is invalid", params)
				}
			}
			return Pass()
		}
		if f.Value.kind == KindMap || !set.contains(f.Value) {
			return Fail("selected value is invalid", params)
		}
		return Pass()
	}, nil
}

// notInRule rejects a scalar in the set, or a list with any element in the
// set.
func notInRule(p Params) (Check, error) {
	values, err := p.Values()
	if err != nil {
		return nil, err
	}
	set := choices(values)
	params := set.params()

	return func(f Field) Outcome {
		items := []Value{f.Value}
		if f.Value.kind == KindList {
			items = f.Value.list
		}
		for _, item := range items {
			if set.contains(item) {
				return Fail("selected value is invalid", params)
			}
		}
		return Pass()
	}, nil
}

// isDistinct requires a list or map whose scalar elements differ by string
// form. Nested lists and maps are not compared.
func isDistinct(v Value) bool {
	if v.kind != KindList && v.kind != KindMap {
		return false
	}
	items := v.list
	if v.kind == KindMap {
		items = slices.Collect(maps.Values(v.m))
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.kind == KindList || item.kind == KindMap {
			continue
		}
		key := item.Text()
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
