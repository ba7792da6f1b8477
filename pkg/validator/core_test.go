package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "password", Rule: "required", Message: "field is required"},
		{Field: "items.0.sku", Rule: "string", Message: "must be a string"},
		{Field: "items.0.sku", Rule: "min", Message: "must be at least 3"},
	}

	t.Run("error lists every failure", func(t *testing.T) {
		assert.Equal(t,
			"validation failed: password: field is required; items.0.sku: must be a string; items.0.sku: must be at least 3",
			errs.Error())
		assert.Equal(t, "validation failed", validator.ValidationErrors{}.Error())
	})

	t.Run("for selects one field in rule order", func(t *testing.T) {
		got := errs.For("items.0.sku")
		assert.Equal(t, []string{"string", "min"}, got.Rules())
		assert.Empty(t, errs.For("email"))
	})

	t.Run("fields are unique in first failure order", func(t *testing.T) {
		assert.Equal(t, []string{"password", "items.0.sku"}, errs.Fields())
		assert.Empty(t, validator.ValidationErrors{}.Fields())
	})

	t.Run("json uses short translation keys", func(t *testing.T) {
		data, err := json.Marshal(validator.ValidationError{
			Field:             "age",
			Rule:              "min",
			Message:           "must be at least 18",
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"field": "age", "min": 18},
		}, json.Deterministic(true))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"field":"age","rule":"min","message":"must be at least 18","key":"validation.min","params":{"field":"age","min":18}}`,
			string(data))
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	v, err := validator.New(validator.Rules{"email": {"required", "email"}})
	require.NoError(t, err)
	failed := v.Validate(map[string]any{"email": "nope"}).Err()

	tests := []struct {
		name   string
		err    error
		fields []string
	}{
		{name: "result error", err: failed, fields: []string{"email"}},
		{name: "wrapped result error", err: fmt.Errorf("signup: %w", failed), fields: []string{"email"}},
		{name: "other error", err: errors.New("boom")},
		{name: "nil error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.ExtractValidationErrors(tt.err)
			assert.Equal(t, tt.fields != nil, validator.IsValidationError(tt.err))
			assert.Equal(t, tt.fields, got.Fields())
		})
	}
}
