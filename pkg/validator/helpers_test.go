package validator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/validator"
)

func mustValidate(t *testing.T, rules validator.Rules, data any) *validator.Result {
	t.Helper()
	v, err := validator.New(rules)
	require.NoError(t, err)
	return v.Validate(data)
}

// passes applies a single rule entry to {"field": value}.
func passes(t *testing.T, rule any, value any) bool {
	t.Helper()
	res := mustValidate(t, validator.Rules{"field": {rule}}, map[string]any{"field": value})
	return res.Valid()
}

func compileErr(t *testing.T, rules validator.Rules) error {
	t.Helper()
	_, err := validator.New(rules)
	require.Error(t, err)
	return err
}
