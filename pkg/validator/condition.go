package validator

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Condition operators.
const (
	OpEqual        = "="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpIn           = "in"
	OpNotIn        = "not_in"
	OpFilled       = "filled"
	OpEmpty        = "empty"
	OpMatches      = "matches"
)

var operatorAliases = map[string]string{
	"=":       OpEqual,
	"==":      OpEqual,
	"!=":      OpNotEqual,
	"<>":      OpNotEqual,
	">":       OpGreater,
	"<":       OpLess,
	">=":      OpGreaterEqual,
	"<=":      OpLessEqual,
	"in":      OpIn,
	"not_in":  OpNotIn,
	"filled":  OpFilled,
	"empty":   OpEmpty,
	"matches": OpMatches,
}

type subjectKind uint8

const (
	subjectField subjectKind = iota
	subjectValue
	subjectLength
	subjectType
	subjectEmpty
	subjectFilled
	subjectMatches
)

var selfSubjects = map[string]subjectKind{
	"@value":   subjectValue,
	"@length":  subjectLength,
	"@type":    subjectType,
	"@empty":   subjectEmpty,
	"@filled":  subjectFilled,
	"@matches": subjectMatches,
}

// condition is a compiled when predicate.
type condition interface {
	eval(f Field) bool
}

type allOf []condition

func (c allOf) eval(f Field) bool {
	for _, sub := range c {
		if !sub.eval(f) {
			return false
		}
	}
	return true
}

type anyOf []condition

func (c anyOf) eval(f Field) bool {
	for _, sub := range c {
		if sub.eval(f) {
			return true
		}
	}
	return false
}

type comparison struct {
	subject subjectKind
	field   FieldPath
	op      string
	operand Value
	re      *regexp.Regexp
}

// parseCondition compiles a predicate of one of the shapes
//
//	[field, op, value]  [field, value]  [field, "filled"]
//	["@length", op, value]  ["@empty"]  ["@matches", pattern]
//	["and", cond, ...]  ["or", cond, ...]
func parseCondition(v Value, reg *Registry) (condition, error) {
	if v.kind != KindList || len(v.list) == 0 || v.list[0].kind != KindString {
		return nil, fmt.Errorf("%w: rule 'when' requires a condition array", ErrInvalidCondition)
	}
	items := v.list
	head := items[0].s

	switch head {
	case "and", "or":
		if len(items) < 2 {
			return nil, fmt.Errorf("%w: %q needs at least one condition", ErrInvalidCondition, head)
		}
		subs := make([]condition, 0, len(items)-1)
		for _, item := range items[1:] {
			sub, err := parseCondition(item, reg)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		if head == "and" {
			return allOf(subs), nil
		}
		return anyOf(subs), nil
	}

	c := comparison{subject: subjectField}
	if strings.HasPrefix(head, "@") {
		kind, ok := selfSubjects[head]
		if !ok {
			return nil, fmt.Errorf("%w: unknown subject %q", ErrInvalidCondition, head)
		}
		c.subject = kind
		switch kind {
		case subjectEmpty, subjectFilled:
			if len(items) != 1 {
				return nil, fmt.Errorf("%w: %q takes no operator", ErrInvalidCondition, head)
			}
			return c, nil
		case subjectMatches:
			if len(items) != 2 {
				return nil, fmt.Errorf("%w: %q requires a pattern", ErrInvalidCondition, head)
			}
			re, err := conditionPattern(items[1], reg)
			if err != nil {
				return nil, err
			}
			c.re = re
			return c, nil
		}
	} else {
		field, err := ParsePath(head)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
		}
		c.field = field
	}

	switch len(items) {
	case 2:
		if s, ok := items[1].AsString(); ok && (s == OpFilled || s == OpEmpty) {
			c.op = s
			return c, nil
		}
		c.op, c.operand = OpEqual, items[1]
	case 3:
		s, ok := items[1].AsString()
		op, known := operatorAliases[s]
		if !ok || !known {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, items[1].Text())
		}
		c.op, c.operand = op, items[2]
	default:
		return nil, fmt.Errorf("%w: condition %q needs an operator and a value", ErrInvalidCondition, head)
	}

	switch c.op {
	case OpIn, OpNotIn:
		if c.operand.kind != KindList {
			return nil, fmt.Errorf("%w: operator %q requires an array of values", ErrInvalidCondition, c.op)
		}
	case OpMatches:
		re, err := conditionPattern(c.operand, reg)
		if err != nil {
			return nil, err
		}
		c.re = re
	case OpFilled, OpEmpty:
		return nil, fmt.Errorf("%w: operator %q takes no value", ErrInvalidCondition, c.op)
	}
	return c, nil
}

func conditionPattern(v Value, reg *Registry) (*regexp.Regexp, error) {
	expr, ok := v.AsString()
	if !ok || expr == "" {
		return nil, fmt.Errorf("%w: matches requires a pattern string", ErrInvalidCondition)
	}
	if reg == nil {
		return compilePattern(expr)
	}
	return reg.compile(expr)
}

func (c comparison) eval(f Field) bool {
	var subject Value
	present := true

	switch c.subject {
	case subjectField:
		subject, present = f.Lookup(c.field)
	case subjectValue:
		subject, present = f.Value, f.Present
	case subjectLength:
		subject = Int(int64(lengthOf(f.Value)))
	case subjectType:
		subject = String("null")
		if f.Present {
			subject = String(f.Value.TypeName())
		}
	case subjectEmpty:
		return f.Empty()
	case subjectFilled:
		return !f.Empty()
	case subjectMatches:
		s, ok := f.Value.AsString()
		return f.Present && ok && c.re.MatchString(s)
	}

	switch c.op {
	case OpEqual:
		return looseEqual(subject, c.operand)
	case OpNotEqual:
		return !looseEqual(subject, c.operand)
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		if !present || subject.IsNull() {
			return false
		}
		order, ok := compareOrder(subject, c.operand)
		if !ok {
			return false
		}
		switch c.op {
		case OpGreater:
			return order > 0
		case OpLess:
			return order < 0
		case OpGreaterEqual:
			return order >= 0
		default:
			return order <= 0
		}
	case OpIn:
		return present && slices.ContainsFunc(c.operand.list, func(item Value) bool { return looseEqual(subject, item) })
	case OpNotIn:
		return !present || !slices.ContainsFunc(c.operand.list, func(item Value) bool { return looseEqual(subject, item) })
	case OpFilled:
		return present && !subject.IsEmpty()
	case OpEmpty:
		return !present || subject.IsEmpty()
	case OpMatches:
		s, ok := subject.AsString()
		return present && ok && c.re.MatchString(s)
	}
	return false
}

// compareOrder orders two scalars numerically when both are numeric and
// lexicographically otherwise.
func compareOrder(a, b Value) (int, bool) {
	if a.kind == KindList || a.kind == KindMap || b.kind == KindList || b.kind == KindMap {
		return 0, false
	}
	if an, ok := a.Number(); ok {
		if bn, ok := b.Number(); ok {
			return cmp.Compare(an, bn), true
		}
	}
	return strings.Compare(a.Text(), b.Text()), true
}

func lengthOf(v Value) int {
	switch v.kind {
	case KindString:
		return utf8.RuneCountInString(v.s)
	case KindList, KindMap:
		return v.Len()
	default:
		return 0
	}
}
