package validator

import "errors"

func presenceRules(r *Registry) error {
	return errors.Join(
		r.Register("required", requiredRule, Implicit(), Gate()),
		r.Register(ruleNullable, nullableRule, Implicit()),
		r.Register("filled", filledRule, Implicit()),
		r.Register("present", presentRule, Implicit()),
		r.Register(ruleBail, markerRule, Implicit()),
	)
}

// requiredRule fails when the value is absent or empty. Its failure stops the
// remaining non-gate rules of the field.
func requiredRule(Params) (Check, error) {
	return func(f Field) Outcome {
		if f.Empty() {
			return Fail("field is required", nil)
		}
		return Pass()
	}, nil
}

// nullableRule lets empty values through. The validator skips the other
// non-implicit rules of a nullable field whose value is empty.
func nullableRule(Params) (Check, error) {
	return func(f Field) Outcome {
		if !f.Present {
			return Skip()
		}
		return Pass()
	}, nil
}

// filledRule fails only when the field is present and empty.
func filledRule(Params) (Check, error) {
	return func(f Field) Outcome {
		if !f.Present {
			return Skip()
		}
		if f.Value.IsEmpty() {
			return Fail("must not be empty when present", nil)
		}
		return Pass()
	}, nil
}

func presentRule(Params) (Check, error) {
	return func(f Field) Outcome {
		if !f.Present {
			return Fail("field must be present", nil)
		}
		return Pass()
	}, nil
}

func markerRule(Params) (Check, error) {
	return func(Field) Outcome { return Skip() }, nil
}
