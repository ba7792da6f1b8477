package validator

const confirmationSuffix = "_confirmation"

func comparableRules(r *Registry) error {
	return register(r, map[string]Builder{
		"same":      sameRule,
		"different": differentRule,
		"confirmed": confirmedRule,
	})
}

// sameRule compares with another field under loose equality. An absent
// field never matches.
func sameRule(p Params) (Check, error) {
	other, err := p.Field(0)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"other": other.String()}
	return func(f Field) Outcome {
		ov, ok := f.Lookup(other)
		if ok && looseEqual(f.Value, ov) {
			return Pass()
		}
		return Fail("must match "+other.String(), params)
	}, nil
}

func differentRule(p Params) (Check, error) {
	other, err := p.Field(0)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"other": other.String()}
	return func(f Field) Outcome {
		ov, ok := f.Lookup(other)
		if ok && looseEqual(f.Value, ov) {
			return Fail("must be different from "+other.String(), params)
		}
		return Pass()
	}, nil
}

// confirmedRule requires a sibling field named <field>_confirmation holding
// an equal value.
func confirmedRule(Params) (Check, error) {
	return func(f Field) Outcome {
		target, ok := f.Path.WithSuffix(confirmationSuffix)
		if ok {
			if cv, present := Get(target, f.Document); present && looseEqual(f.Value, cv) {
				return Pass()
			}
		}
		return Fail("confirmation does not match", map[string]any{"other": f.Name() + confirmationSuffix})
	}, nil
}
