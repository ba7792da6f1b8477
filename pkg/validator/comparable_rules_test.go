package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestSame(t *testing.T) {
	t.Parallel()

	rules := validator.Rules{"repeat": {"same:email"}}

	t.Run("equal values pass", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"email": "a@b.co", "repeat": "a@b.co"})
		assert.True(t, res.Valid())
	})

	t.Run("loose equality across types", func(t *testing.T) {
		res := mustValidate(t, validator.Rules{"a": {"same:b"}}, map[string]any{"a": "10", "b": 10})
		assert.True(t, res.Valid())
	})

	t.Run("different values fail with other param", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"email": "a@b.co", "repeat": "x@b.co"})
		errs := res.ErrorsFor("repeat")
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].TranslationValues["other"])
	})

	t.Run("absent other field fails", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"repeat": "a@b.co"})
		assert.True(t, res.HasError("repeat"))
	})

	t.Run("wildcard reference follows the current item", func(t *testing.T) {
		res := mustValidate(t, validator.Rules{"rows.*.b": {"same:rows.*.a"}}, map[string]any{
			"rows": []any{
				map[string]any{"a": 1, "b": 1},
				map[string]any{"a": 2, "b": 3},
			},
		})
		assert.False(t, res.HasError("rows.0.b"))
		assert.True(t, res.HasError("rows.1.b"))
	})
}

func TestDifferent(t *testing.T) {
	t.Parallel()

	rules := validator.Rules{"new_password": {"different:old_password"}}

	res := mustValidate(t, rules, map[string]any{"old_password": "a", "new_password": "b"})
	assert.True(t, res.Valid())

	res = mustValidate(t, rules, map[string]any{"old_password": "a", "new_password": "a"})
	assert.True(t, res.HasError("new_password"))

	res = mustValidate(t, rules, map[string]any{"new_password": "a"})
	assert.True(t, res.Valid())
}

func TestConfirmed(t *testing.T) {
	t.Parallel()

	rules := validator.Rules{"password": {"required", "confirmed"}}

	t.Run("matching confirmation passes", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"password": "secret", "password_confirmation": "secret"})
		assert.True(t, res.Valid())
		assert.Equal(t, map[string]any{"password": "secret"}, res.Validated())
	})

	t.Run("mismatch fails", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"password": "secret", "password_confirmation": "other"})
		errs := res.ErrorsFor("password")
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.confirmed", errs[0].TranslationKey)
	})

	t.Run("missing confirmation fails", func(t *testing.T) {
		res := mustValidate(t, rules, map[string]any{"password": "secret"})
		assert.True(t, res.HasError("password"))
	})

	t.Run("nested fields confirm against siblings", func(t *testing.T) {
		res := mustValidate(t, validator.Rules{"users.*.pin": {"confirmed"}}, map[string]any{
			"users": []any{
				map[string]any{"pin": "1234", "pin_confirmation": "1234"},
				map[string]any{"pin": "1234", "pin_confirmation": "4321"},
			},
		})
		assert.Equal(t, []string{"users.1.pin"}, res.Fields())
	})
}
