package validator

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of a validated document: a scalar, an ordered list of
// values, or a mapping from string keys to values.
//
// Values are treated as immutable once built. Constructors take ownership of
// the slices and maps passed to them.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func Null() Value               { return Value{} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map builds a map value. A nil map yields an empty map value.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Len returns the number of elements of a list or map, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Items returns a copy of the list elements.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.list)
}

// Index returns the i-th list element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Key returns the map entry stored under k.
func (v Value) Key(k string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	child, ok := v.m[k]
	return child, ok
}

// Keys returns the sorted keys of a map value.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return slices.Sorted(maps.Keys(v.m))
}

// IsEmpty reports whether the value counts as empty: null, false, the empty
// string, or an empty list or map.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return !v.b
	case KindString:
		return v.s == ""
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return len(v.m) == 0
	default:
		return false
	}
}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Number returns the numeric reading of the value. Integers, floats and
// decimal numeric strings (surrounding whitespace ignored) are numeric.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindString:
		s := strings.TrimSpace(v.s)
		if !numericPattern.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Text returns the loose string form used for comparisons. Null renders as
// the empty string and composites as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		b, err := json.Marshal(v.Any(), json.Deterministic(true))
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func (v Value) String() string { return v.Text() }

// TypeName returns the name reported by the @type condition subject.
func (v Value) TypeName() string {
	switch v.kind {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "double"
	case KindString:
		return "string"
	case KindList, KindMap:
		return "array"
	default:
		return "null"
	}
}

// Equal reports deep structural equality. Int and Float holding the same
// number are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		if isNumberKind(v.kind) && isNumberKind(o.kind) {
			a, _ := v.Number()
			b, _ := o.Number()
			return a == b
		}
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		return slices.EqualFunc(v.list, o.list, Value.Equal)
	case KindMap:
		return maps.EqualFunc(v.m, o.m, Value.Equal)
	}
	return false
}

func isNumberKind(k Kind) bool { return k == KindInt || k == KindFloat }

// Any converts the value back to plain Go data: map[string]any, []any,
// int64, float64, string, bool or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Any()
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any(), json.Deterministic(true))
}

// looseEqual compares two values the way conditions and the in rule do:
// numerically when both sides are numeric, by string form otherwise.
func looseEqual(a, b Value) bool {
	if a.kind == KindList || a.kind == KindMap || b.kind == KindList || b.kind == KindMap {
		return a.Equal(b)
	}
	if an, ok := a.Number(); ok {
		if bn, ok := b.Number(); ok {
			return an == bn
		}
	}
	return a.Text() == b.Text()
}
