package validator

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

const ruleWhen = "when"

// verbatimRules keep everything after the first ':' of the shorthand form as
// a single argument.
var verbatimRules = []string{"regex", "not_regex", "date_format"}

// Declaration binds a field pattern to an ordered list of rule entries.
//
// Each entry is a rule name ("email"), the shorthand "min:3", a list whose
// first element is the name (["between", 1, 10]), or a conditional
// ["when", condition, thenRules] with an optional fourth elseRules element.
type Declaration struct {
	Field string
	Rules []any
}

// Rules is the map form of declarations. Patterns are evaluated in sorted
// order; use []Declaration when the order matters.
type Rules map[string][]any

// Declarations returns the declarations sorted by field pattern.
func (r Rules) Declarations() []Declaration {
	out := make([]Declaration, 0, len(r))
	for _, field := range slices.Sorted(maps.Keys(r)) {
		out = append(out, Declaration{Field: field, Rules: r[field]})
	}
	return out
}

// RuleSpec is one parsed rule entry: either a plain rule with arguments or a
// conditional with then and else branches.
type RuleSpec struct {
	Name      string
	Args      []Value
	Condition Value
	Then      []RuleSpec
	Else      []RuleSpec
}

// IsConditional reports whether the spec is a when rule.
func (s RuleSpec) IsConditional() bool { return s.Name == ruleWhen }

// ParseRuleSpec parses a single rule entry.
func ParseRuleSpec(raw any) (RuleSpec, error) {
	return parseSpec(FromAny(raw))
}

// ParseRuleSpecs parses an ordered rule list.
func ParseRuleSpecs(raw []any) ([]RuleSpec, error) {
	specs := make([]RuleSpec, 0, len(raw))
	for _, item := range raw {
		spec, err := ParseRuleSpec(item)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseSpec(v Value) (RuleSpec, error) {
	switch v.kind {
	case KindString:
		return parseShorthand(v.s)
	case KindList:
		return parseListSpec(v.list)
	default:
		return RuleSpec{}, fmt.Errorf("%w: rule must be a string or array", ErrInvalidRuleSpec)
	}
}

func parseShorthand(s string) (RuleSpec, error) {
	name, rest, hasArgs := strings.Cut(s, ":")
	if !ruleNamePattern.MatchString(name) {
		return RuleSpec{}, fmt.Errorf("%w: invalid rule name %q", ErrInvalidRuleSpec, name)
	}
	if name == ruleWhen {
		return RuleSpec{}, fmt.Errorf("%w: rule 'when' requires a condition array", ErrInvalidCondition)
	}
	spec := RuleSpec{Name: name}
	if !hasArgs {
		return spec, nil
	}
	if slices.Contains(verbatimRules, name) {
		spec.Args = []Value{String(rest)}
		return spec, nil
	}
	for arg := range strings.SplitSeq(rest, ",") {
		spec.Args = append(spec.Args, String(strings.TrimSpace(arg)))
	}
	return spec, nil
}

func parseListSpec(items []Value) (RuleSpec, error) {
	if len(items) == 0 || items[0].kind != KindString || !ruleNamePattern.MatchString(items[0].s) {
		return RuleSpec{}, fmt.Errorf("%w: rule array must start with a rule name string", ErrInvalidRuleSpec)
	}
	name := items[0].s
	if name != ruleWhen {
		return RuleSpec{Name: name, Args: slices.Clone(items[1:])}, nil
	}

	if len(items) < 2 || items[1].kind != KindList {
		return RuleSpec{}, fmt.Errorf("%w: rule 'when' requires a condition array", ErrInvalidCondition)
	}
	if len(items) < 3 || items[2].kind != KindList {
		return RuleSpec{}, fmt.Errorf("%w: rule 'when' requires a 'then' rules array", ErrInvalidRuleSpec)
	}
	if len(items) > 4 {
		return RuleSpec{}, fmt.Errorf("%w: rule 'when' takes a condition, 'then' rules and optional 'else' rules", ErrInvalidRuleSpec)
	}

	spec := RuleSpec{Name: ruleWhen, Condition: items[1]}
	var err error
	if spec.Then, err = parseSpecList(items[2].list); err != nil {
		return RuleSpec{}, err
	}
	if len(items) == 4 {
		if items[3].kind != KindList {
			return RuleSpec{}, fmt.Errorf("%w: rule 'when' requires an 'else' rules array", ErrInvalidRuleSpec)
		}
		if spec.Else, err = parseSpecList(items[3].list); err != nil {
			return RuleSpec{}, err
		}
	}
	return spec, nil
}

func parseSpecList(items []Value) ([]RuleSpec, error) {
	out := make([]RuleSpec, 0, len(items))
	for _, item := range items {
		spec, err := parseSpec(item)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}
