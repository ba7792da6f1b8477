package validator

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"

	"github.com/dmitrymomot/docval/pkg/cache"
)

const patternCacheSize = 512

var ruleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// reserved names are handled by the validator itself.
var reservedRules = []string{"when", "and", "or"}

type outcomeState uint8

const (
	outcomePass outcomeState = iota
	outcomeFail
	outcomeSkip
)

// Outcome is the result of applying one rule to one field.
type Outcome struct {
	state   outcomeState
	message string
	params  map[string]any
}

func Pass() Outcome { return Outcome{state: outcomePass} }

// Skip reports that the rule does not apply to the field. A skipped rule
// contributes neither a failure nor validated output.
func Skip() Outcome { return Outcome{state: outcomeSkip} }

// Fail reports a failure with a default message and the rule arguments that
// produced it.
func Fail(message string, params map[string]any) Outcome {
	return Outcome{state: outcomeFail, message: message, params: params}
}

func (o Outcome) Passed() bool  { return o.state == outcomePass }
func (o Outcome) Failed() bool  { return o.state == outcomeFail }
func (o Outcome) Skipped() bool { return o.state == outcomeSkip }

// Field is the view of one resolved path handed to a rule check.
type Field struct {
	Path     ResolvedPath
	Value    Value
	Present  bool
	Nullable bool
	Document Value
}

// Name returns the concrete dotted path of the field.
func (f Field) Name() string { return f.Path.String() }

// Empty reports whether the field is absent or holds an empty value.
func (f Field) Empty() bool { return !f.Present || f.Value.IsEmpty() }

// Lookup reads another field of the document. Wildcards in ref take the
// indices of the field being validated.
func (f Field) Lookup(ref FieldPath) (Value, bool) {
	return Lookup(f.Document, ref, f.Path.indices)
}

// Check evaluates a rule whose arguments are already bound.
type Check func(f Field) Outcome

// Builder binds declared arguments to a rule. It runs once while a validator
// is built and reports malformed arguments as configuration errors.
type Builder func(p Params) (Check, error)

// Func is the simple form of an extension rule: a check that receives the
// raw arguments on every call.
type Func func(f Field, args []Value) Outcome

type definition struct {
	name     string
	build    Builder
	implicit bool
	gate     bool
}

// RuleOption adjusts how the validator schedules a rule.
type RuleOption func(*definition)

// Implicit marks a rule that also runs on absent values and on empty values
// of nullable fields. Presence rules are implicit.
func Implicit() RuleOption {
	return func(d *definition) { d.implicit = true }
}

// Gate marks a rule whose failure suppresses the later non-gate rules of the
// same field.
func Gate() RuleOption {
	return func(d *definition) { d.gate = true }
}

// Registry maps rule names to rule builders.
//
// Registration is a configuration-phase operation. Validators resolve names
// when they are built, so rules registered afterwards do not affect them.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]definition
	patterns *cache.Loading[*regexp.Regexp]
}

// Registration adds rules to a registry.
type Registration func(r *Registry) error

// Group combines registrations into one.
func Group(regs ...Registration) Registration {
	return func(r *Registry) error {
		for _, reg := range regs {
			if reg == nil {
				continue
			}
			if err := reg(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewRegistry returns a registry holding the built-in rules and the given
// registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newEmptyRegistry()
	if err := builtinRules(r); err != nil {
		return nil, fmt.Errorf("register built-in rules: %w", err)
	}
	if err := Group(regs...)(r); err != nil {
		return nil, err
	}
	return r, nil
}

func newEmptyRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]definition),
		patterns: cache.NewLoading[*regexp.Regexp](patternCacheSize),
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry returns the shared registry of built-in rules used when no
// registry is supplied. Extensions should go into a registry built with
// NewRegistry rather than into this one.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Register adds a rule builder under name.
func (r *Registry) Register(name string, b Builder, opts ...RuleOption) error {
	if b == nil {
		return fmt.Errorf("%w: nil builder for %q", ErrInvalidRuleName, name)
	}
	if !ruleNamePattern.MatchString(name) || slices.Contains(reservedRules, name) {
		return fmt.Errorf("%w: %q", ErrInvalidRuleName, name)
	}

	d := definition{name: name, build: b}
	for _, opt := range opts {
		opt(&d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	r.rules[name] = d
	return nil
}

// RegisterFunc adds a simple extension rule. The declared arguments are
// passed through unchanged on every call.
func (r *Registry) RegisterFunc(name string, fn Func, opts ...RuleOption) error {
	if fn == nil {
		return fmt.Errorf("%w: nil func for %q", ErrInvalidRuleName, name)
	}
	return r.Register(name, func(p Params) (Check, error) {
		args := p.Args()
		return func(f Field) Outcome { return fn(f, args) }, nil
	}, opts...)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rules[name]
	return ok
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// RuleInfo describes a registered rule.
type RuleInfo struct {
	Name     string
	Implicit bool
	Gate     bool
}

// Lookup returns the description of a registered rule, or ErrUnknownRule.
func (r *Registry) Lookup(name string) (RuleInfo, error) {
	d, err := r.lookup(name)
	if err != nil {
		return RuleInfo{}, err
	}
	return RuleInfo{Name: d.name, Implicit: d.implicit, Gate: d.gate}, nil
}

func (r *Registry) lookup(name string) (definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.rules[name]
	if !ok {
		return definition{}, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	return d, nil
}

// compile returns a compiled pattern, shared between every validator built
// from this registry.
func (r *Registry) compile(expr string) (*regexp.Regexp, error) {
	return r.patterns.Get(expr, func() (*regexp.Regexp, error) {
		return compilePattern(expr)
	})
}

// register is used by the built-in rule families.
func register(r *Registry, rules map[string]Builder, opts ...RuleOption) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(rules)) {
		errs = append(errs, r.Register(name, rules[name], opts...))
	}
	return errors.Join(errs...)
}
