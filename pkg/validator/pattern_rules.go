package validator

func patternRules(r *Registry) error {
	return register(r, map[string]Builder{
		"regex":     regexRule,
		"not_regex": notRegexRule,
	})
}

// regexRule fails for non-string values.
func regexRule(p Params) (Check, error) {
	re, err := p.Regexp(0)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"pattern": p.args[0].Text()}
	return func(f Field) Outcome {
		s, ok := f.Value.AsString()
		if ok && re.MatchString(s) {
			return Pass()
		}
		return Fail("format is invalid", params)
	}, nil
}

// notRegexRule passes non-string values, which cannot match.
func notRegexRule(p Params) (Check, error) {
	re, err := p.Regexp(0)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"pattern": p.args[0].Text()}
	return func(f Field) Outcome {
		s, ok := f.Value.AsString()
		if ok && re.MatchString(s) {
			return Fail("format is invalid", params)
		}
		return Pass()
	}, nil
}
