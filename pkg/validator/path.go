package validator

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	// Wildcard is the path segment that matches every element of a list.
	Wildcard = "*"

	maxWildcards  = 32
	maxPathLength = 8192
)

// Segment is one element of a field pattern.
type Segment struct {
	Key      string
	Wildcard bool
}

// FieldPath is a parsed field pattern such as "items.*.price".
type FieldPath struct {
	raw       string
	segments  []Segment
	wildcards int
}

// ParsePath parses a dotted field pattern. Segments may contain ASCII letters,
// digits, '_' and '-'; a '*' segment matches every element of a list.
func ParsePath(pattern string) (FieldPath, error) {
	if pattern == "" {
		return FieldPath{}, fmt.Errorf("%w: empty pattern", ErrInvalidField)
	}
	if len(pattern) > maxPathLength {
		return FieldPath{}, fmt.Errorf("%w: pattern longer than %d bytes", ErrInvalidField, maxPathLength)
	}

	parts := strings.Split(pattern, ".")
	p := FieldPath{raw: pattern, segments: make([]Segment, 0, len(parts))}
	for _, part := range parts {
		if part == Wildcard {
			p.wildcards++
			if p.wildcards > maxWildcards {
				return FieldPath{}, fmt.Errorf("%w: more than %d wildcards in %q", ErrInvalidField, maxWildcards, pattern)
			}
			p.segments = append(p.segments, Segment{Key: Wildcard, Wildcard: true})
			continue
		}
		if !validSegment(part) {
			return FieldPath{}, fmt.Errorf("%w: %q", ErrInvalidField, pattern)
		}
		p.segments = append(p.segments, Segment{Key: part})
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(pattern string) FieldPath {
	p, err := ParsePath(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

func (p FieldPath) String() string      { return p.raw }
func (p FieldPath) Segments() []Segment { return slices.Clone(p.segments) }
func (p FieldPath) HasWildcard() bool   { return p.wildcards > 0 }
func (p FieldPath) WildcardCount() int  { return p.wildcards }
func (p FieldPath) IsZero() bool        { return len(p.segments) == 0 }

// Step is one concrete element of a resolved path: a map key or a list index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Step) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// ResolvedPath is a wildcard-free path produced by expanding a pattern
// against one document.
type ResolvedPath struct {
	pattern string
	steps   []Step
	indices []int
}

// String renders the path in dotted form, list indices in decimal.
func (r ResolvedPath) String() string {
	var b strings.Builder
	for i, s := range r.steps {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Pattern returns the field pattern the path was expanded from.
func (r ResolvedPath) Pattern() string { return r.pattern }

// Steps returns a copy of the concrete steps.
func (r ResolvedPath) Steps() []Step { return slices.Clone(r.steps) }

// Indices returns the list indices chosen for each wildcard, left to right.
func (r ResolvedPath) Indices() []int { return slices.Clone(r.indices) }

// WithSuffix returns a sibling path whose last key has suffix appended. It is
// used by rules that read a companion field such as "password_confirmation".
func (r ResolvedPath) WithSuffix(suffix string) (ResolvedPath, bool) {
	if len(r.steps) == 0 || r.steps[len(r.steps)-1].IsIndex {
		return ResolvedPath{}, false
	}
	steps := slices.Clone(r.steps)
	steps[len(steps)-1].Key += suffix
	return ResolvedPath{pattern: r.pattern + suffix, steps: steps, indices: r.indices}, true
}

// Resolve expands pattern against doc.
//
// A pattern without wildcards always yields exactly one path, whether or not
// the leaf is present. Each wildcard enumerates the list found at its depth;
// an empty list, a non-list or a missing node yields no expansion for that
// branch. Paths are returned left to right in ascending index order.
func Resolve(pattern FieldPath, doc Value) []ResolvedPath {
	if pattern.IsZero() {
		return nil
	}
	var out []ResolvedPath
	steps := make([]Step, 0, len(pattern.segments))
	var walk func(node Value, present bool, seg int, indices []int)
	walk = func(node Value, present bool, seg int, indices []int) {
		if seg == len(pattern.segments) {
			out = append(out, ResolvedPath{
				pattern: pattern.raw,
				steps:   slices.Clone(steps),
				indices: slices.Clone(indices),
			})
			return
		}
		s := pattern.segments[seg]
		if s.Wildcard {
			if !present || node.kind != KindList {
				return
			}
			for i, item := range node.list {
				steps = append(steps, Step{Index: i, IsIndex: true})
				walk(item, true, seg+1, append(indices, i))
				steps = steps[:len(steps)-1]
			}
			return
		}
		step, child, ok := descend(node, present, s.Key)
		steps = append(steps, step)
		walk(child, ok, seg+1, indices)
		steps = steps[:len(steps)-1]
	}
	walk(doc, true, 0, nil)
	return out
}

// descend follows one literal key. A numeric key addressing a list becomes an
// index step.
func descend(node Value, present bool, key string) (Step, Value, bool) {
	if present && node.kind == KindList {
		if idx, ok := parseIndex(key); ok {
			child, found := node.Index(idx)
			return Step{Index: idx, IsIndex: true}, child, found
		}
		return Step{Key: key}, Value{}, false
	}
	if present && node.kind == KindMap {
		child, found := node.m[key]
		return Step{Key: key}, child, found
	}
	return Step{Key: key}, Value{}, false
}

func parseIndex(key string) (int, bool) {
	if key == "" || key[0] == '+' || key[0] == '-' {
		return 0, false
	}
	idx, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// Get reads the value at a resolved path. The bool reports presence.
func Get(path ResolvedPath, doc Value) (Value, bool) {
	node := doc
	for _, s := range path.steps {
		var ok bool
		if s.IsIndex {
			node, ok = node.Index(s.Index)
		} else {
			node, ok = node.Key(s.Key)
		}
		if !ok {
			return Value{}, false
		}
	}
	return node, true
}

// Lookup reads a field relative to the wildcard indices of a path being
// validated: the k-th wildcard of ref takes the k-th index of indices. It
// reports absence when ref has more wildcards than indices supplies.
func Lookup(doc Value, ref FieldPath, indices []int) (Value, bool) {
	node, present := doc, true
	next := 0
	for _, s := range ref.segments {
		if s.Wildcard {
			if next >= len(indices) || !present || node.kind != KindList {
				return Value{}, false
			}
			node, present = node.Index(indices[next])
			next++
		} else {
			_, node, present = descend(node, present, s.Key)
		}
		if !present {
			return Value{}, false
		}
	}
	return node, present
}

// Set writes v into out at path, creating intermediate maps and lists. List
// steps keep index alignment; gaps are filled with null. Containers already in
// out are copied before being changed, so values shared with an input
// document are never modified.
func Set(out *Value, path ResolvedPath, v Value) {
	setAt(out, path.steps, v)
}

func setAt(node *Value, steps []Step, v Value) {
	if len(steps) == 0 {
		*node = v
		return
	}
	s := steps[0]
	if s.IsIndex {
		var list []Value
		if node.kind == KindList {
			list = slices.Clone(node.list)
		}
		for len(list) <= s.Index {
			list = append(list, Null())
		}
		setAt(&list[s.Index], steps[1:], v)
		*node = Value{kind: KindList, list: list}
		return
	}
	m := map[string]Value{}
	if node.kind == KindMap {
		m = maps.Clone(node.m)
	}
	child := m[s.Key]
	setAt(&child, steps[1:], v)
	m[s.Key] = child
	*node = Value{kind: KindMap, m: m}
}
