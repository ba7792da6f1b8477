package validator

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"
)

const (
	ruleNullable = "nullable"
	ruleBail     = "bail"
)

// Option configures a Validator.
type Option func(*options)

type options struct {
	registry *Registry
	logger   *slog.Logger
}

// WithRegistry resolves rule names against r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLogger sets the logger used for debug output. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// boundRule is a rule resolved against the registry with its arguments bound.
type boundRule struct {
	name      string
	check     Check
	implicit  bool
	gate      bool
	cond      condition
	then      []boundRule
	otherwise []boundRule
}

type compiledField struct {
	path  FieldPath
	rules []boundRule
}

// Validator checks documents against a fixed set of declarations. It holds no
// mutable state after construction and is safe for concurrent use.
type Validator struct {
	fields []compiledField
	logger *slog.Logger
}

// New builds a validator from the map form of declarations.
func New(rules Rules, opts ...Option) (*Validator, error) {
	return Compile(rules.Declarations(), opts...)
}

// Compile builds a validator from ordered declarations. Every rule name is
// resolved and every argument bound here; any problem is returned as a
// *ConfigError wrapping one of the package sentinel errors.
func Compile(decls []Declaration, opts ...Option) (*Validator, error) {
	o := options{logger: slog.New(discardHandler{})}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	v := &Validator{
		fields: make([]compiledField, 0, len(decls)),
		logger: o.logger,
	}
	for _, decl := range decls {
		cf, err := compileField(decl, o.registry)
		if err != nil {
			return nil, err
		}
		v.fields = append(v.fields, cf)
	}
	return v, nil
}

func compileField(decl Declaration, reg *Registry) (compiledField, error) {
	path, err := ParsePath(decl.Field)
	if err != nil {
		return compiledField{}, &ConfigError{Field: decl.Field, Err: err}
	}

	specs, err := ParseRuleSpecs(decl.Rules)
	if err != nil {
		return compiledField{}, &ConfigError{Field: decl.Field, Err: err}
	}

	cf := compiledField{path: path}
	if cf.rules, err = bindRules(decl.Field, specs, reg); err != nil {
		return compiledField{}, err
	}
	return cf, nil
}

func bindRules(field string, specs []RuleSpec, reg *Registry) ([]boundRule, error) {
	out := make([]boundRule, 0, len(specs))
	for _, spec := range specs {
		if spec.IsConditional() {
			cond, err := parseCondition(spec.Condition, reg)
			if err != nil {
				return nil, &ConfigError{Field: field, Rule: ruleWhen, Err: err}
			}
			then, err := bindRules(field, spec.Then, reg)
			if err != nil {
				return nil, err
			}
			otherwise, err := bindRules(field, spec.Else, reg)
			if err != nil {
				return nil, err
			}
			out = append(out, boundRule{name: ruleWhen, cond: cond, then: then, otherwise: otherwise})
			continue
		}

		def, err := reg.lookup(spec.Name)
		if err != nil {
			return nil, &ConfigError{Field: field, Rule: spec.Name, Err: err}
		}
		check, err := def.build(Params{rule: spec.Name, args: spec.Args, registry: reg})
		if err != nil {
			return nil, &ConfigError{Field: field, Rule: spec.Name, Err: err}
		}
		out = append(out, boundRule{
			name:     spec.Name,
			check:    check,
			implicit: def.implicit,
			gate:     def.gate,
		})
	}
	return out, nil
}

// Fields returns the declared patterns in evaluation order.
func (v *Validator) Fields() []string {
	out := make([]string, len(v.fields))
	for i, f := range v.fields {
		out[i] = f.path.String()
	}
	return out
}

// Validate converts data with FromAny and validates it.
func (v *Validator) Validate(data any) *Result {
	return v.ValidateValue(FromAny(data))
}

type candidate struct {
	path  ResolvedPath
	value Value
}

// ValidateValue validates a document. Failures are reported in the Result and
// never as an error.
func (v *Validator) ValidateValue(doc Value) *Result {
	res := &Result{errors: make(map[string]ValidationErrors)}
	var candidates []candidate

	for i := range v.fields {
		cf := &v.fields[i]
		for _, path := range Resolve(cf.path, doc) {
			value, present := Get(path, doc)
			f := Field{
				Path:     path,
				Value:    value,
				Present:  present,
				Document: doc,
			}

			var st runState
			st.mark(cf.rules)
			st.run(cf.rules, f)

			if len(st.errs) > 0 {
				key := path.String()
				res.errors[key] = append(res.errors[key], st.errs...)
			}
			if st.applied && present {
				candidates = append(candidates, candidate{path: path, value: value})
			}
		}
	}

	out := Map(nil)
	for _, c := range candidates {
		if res.failedUnder(c.path.String()) {
			continue
		}
		Set(&out, c.path, c.value)
	}
	res.validated = out

	v.logger.Debug("document validated",
		slog.Int("fields", len(v.fields)),
		slog.Int("failed_paths", len(res.errors)),
	)
	return res
}

type runState struct {
	errs     ValidationErrors
	applied  bool
	gated    bool
	halted   bool
	nullable bool
	bail     bool
}

// mark turns on the markers listed directly in rules. Markers inside a
// conditional branch count only once that branch is chosen.
func (st *runState) mark(rules []boundRule) {
	for _, r := range rules {
		switch r.name {
		case ruleNullable:
			st.nullable = true
		case ruleBail:
			st.bail = true
		}
	}
}

func (st *runState) run(rules []boundRule, f Field) {
	for _, r := range rules {
		if st.halted {
			return
		}
		if r.cond != nil {
			branch := r.otherwise
			if r.cond.eval(f) {
				branch = r.then
			}
			st.mark(branch)
			st.run(branch, f)
			continue
		}

		f.Nullable = st.nullable
		if st.gated && !r.gate {
			continue
		}
		if !r.implicit && (!f.Present || (f.Nullable && f.Value.IsEmpty())) {
			continue
		}

		out := r.check(f)
		switch {
		case out.Passed():
			st.applied = true
		case out.Failed():
			st.applied = true
			st.errs = append(st.errs, newValidationError(r.name, f, out))
			if r.gate {
				st.gated = true
			}
			if st.bail {
				st.halted = true
			}
		}
	}
}

func newValidationError(rule string, f Field, out Outcome) ValidationError {
	params := make(map[string]any, len(out.params)+1)
	maps.Copy(params, out.params)
	params["field"] = f.Name()

	msg := out.message
	if msg == "" {
		msg = "is invalid"
	}
	return ValidationError{
		Field:             f.Name(),
		Rule:              rule,
		Message:           msg,
		TranslationKey:    "validation." + rule,
		TranslationValues: params,
	}
}

// Prepared pairs a document with a validator for one-shot use.
type Prepared struct {
	validator *Validator
	data      any
}

// Make compiles rules and pairs them with data. Nothing is validated until
// Validate is called.
func Make(data any, rules Rules, opts ...Option) (*Prepared, error) {
	v, err := New(rules, opts...)
	if err != nil {
		return nil, err
	}
	return &Prepared{validator: v, data: data}, nil
}

// Validate validates the paired document.
func (p *Prepared) Validate() *Result {
	return p.validator.Validate(p.data)
}

// Validator returns the compiled validator, reusable for other documents.
func (p *Prepared) Validator() *Validator {
	return p.validator
}

// IsConfigError reports whether err came from building a validator.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func (r *Result) failedUnder(prefix string) bool {
	for key := range r.errors {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			return true
		}
	}
	return false
}

// discardHandler is a slog.Handler that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
