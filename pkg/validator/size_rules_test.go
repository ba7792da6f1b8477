package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestMin(t *testing.T) {
	t.Parallel()

	t.Run("measures strings in characters", func(t *testing.T) {
		assert.True(t, passes(t, "min:3", "abc"))
		assert.True(t, passes(t, "min:3", "žšć"))
		assert.False(t, passes(t, "min:3", "ab"))
	})

	t.Run("normalizes combining sequences before counting", func(t *testing.T) {
		// "e" followed by a combining acute accent composes to one character.
		assert.False(t, passes(t, []any{"min", 2}, "e\u0301"))
		assert.True(t, passes(t, []any{"max", 1}, "e\u0301"))
	})

	t.Run("measures lists by element count", func(t *testing.T) {
		assert.True(t, passes(t, []any{"min", 2}, []any{1, 2}))
		assert.False(t, passes(t, []any{"min", 2}, []any{1}))
	})

	t.Run("measures numbers by value", func(t *testing.T) {
		assert.True(t, passes(t, []any{"min", 18}, 18))
		assert.False(t, passes(t, []any{"min", 18}, 17.5))
	})

	t.Run("numeric strings are measured by length", func(t *testing.T) {
		assert.False(t, passes(t, []any{"min", 18}, "20"))
	})

	t.Run("reports the limit", func(t *testing.T) {
		res := mustValidate(t, validator.Rules{"name": {"min:3"}}, map[string]any{"name": "ab"})
		errs := res.ErrorsFor("name")
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.min", errs[0].TranslationKey)
		assert.Equal(t, int64(3), errs[0].TranslationValues["min"])
		assert.Equal(t, "name", errs[0].TranslationValues["field"])
		assert.Equal(t, "must be at least 3 characters", errs[0].Message)
	})

	t.Run("requires a numeric parameter", func(t *testing.T) {
		err := compileErr(t, validator.Rules{"name": {"min"}})
		assert.ErrorIs(t, err, validator.ErrMissingParameter)

		err = compileErr(t, validator.Rules{"name": {"min:abc"}})
		assert.ErrorIs(t, err, validator.ErrInvalidParameter)
	})
}

func TestMax(t *testing.T) {
	t.Parallel()

	assert.True(t, passes(t, "max:5", "hello"))
	assert.False(t, passes(t, "max:5", "hello!"))
	assert.True(t, passes(t, []any{"max", 100}, 99.9))
	assert.False(t, passes(t, []any{"max", 1}, []any{1, 2}))
}

func TestBetween(t *testing.T) {
	t.Parallel()

	t.Run("inclusive bounds", func(t *testing.T) {
		assert.True(t, passes(t, "between:2,4", "ab"))
		assert.True(t, passes(t, "between:2,4", "abcd"))
		assert.False(t, passes(t, "between:2,4", "a"))
		assert.False(t, passes(t, "between:2,4", "abcde"))
	})

	t.Run("reports both bounds", func(t *testing.T) {
		res := mustValidate(t, validator.Rules{"age": {[]any{"between", 18, 65}}}, map[string]any{"age": 70})
		errs := res.ErrorsFor("age")
		require.Len(t, errs, 1)
		assert.Equal(t, int64(18), errs[0].TranslationValues["min"])
		assert.Equal(t, int64(65), errs[0].TranslationValues["max"])
	})

	t.Run("needs two parameters", func(t *testing.T) {
		err := compileErr(t, validator.Rules{"age": {"between:1"}})
		assert.ErrorIs(t, err, validator.ErrMissingParameter)
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		err := compileErr(t, validator.Rules{"age": {"between:5,1"}})
		assert.ErrorIs(t, err, validator.ErrInvalidParameter)
	})
}
