package validator

import (
	"maps"
	"slices"

	"github.com/go-json-experiment/json"
)

// Result is the immutable outcome of one Validate call.
type Result struct {
	errors    map[string]ValidationErrors
	validated Value
}

// Valid reports whether no failure was recorded.
func (r *Result) Valid() bool { return len(r.errors) == 0 }

// Failed is the complement of Valid.
func (r *Result) Failed() bool { return !r.Valid() }

// Errors returns the failures keyed by concrete field path. The map is a copy.
func (r *Result) Errors() map[string]ValidationErrors {
	out := make(map[string]ValidationErrors, len(r.errors))
	for k, errs := range r.errors {
		out[k] = slices.Clone(errs)
	}
	return out
}

// ErrorsFor returns the failures recorded for one concrete path, in rule order.
func (r *Result) ErrorsFor(field string) ValidationErrors {
	return slices.Clone(r.errors[field])
}

func (r *Result) HasError(field string) bool {
	_, ok := r.errors[field]
	return ok
}

// Fields returns the failing paths, sorted.
func (r *Result) Fields() []string {
	return slices.Sorted(maps.Keys(r.errors))
}

// Validated returns the pruned document holding only declared fields that
// passed every rule.
func (r *Result) Validated() map[string]any {
	m, _ := r.validated.Any().(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

// ValidatedValue returns the validated subset as a Value tree.
func (r *Result) ValidatedValue() Value { return r.validated }

// Err returns nil for a valid result and the flattened failures otherwise,
// ordered by field path.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	var all ValidationErrors
	for _, field := range r.Fields() {
		all = append(all, r.errors[field]...)
	}
	return all
}

type resultJSON struct {
	Valid     bool                        `json:"valid"`
	Errors    map[string]ValidationErrors `json:"errors"`
	Validated map[string]any              `json:"validated"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Valid:     r.Valid(),
		Errors:    r.Errors(),
		Validated: r.Validated(),
	}, json.Deterministic(true))
}
