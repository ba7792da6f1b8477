package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestParseRuleSpec(t *testing.T) {
	t.Parallel()

	t.Run("bare name", func(t *testing.T) {
		spec, err := validator.ParseRuleSpec("required")
		require.NoError(t, err)
		assert.Equal(t, "required", spec.Name)
		assert.Empty(t, spec.Args)
	})

	t.Run("shorthand splits on commas", func(t *testing.T) {
		spec, err := validator.ParseRuleSpec("between: 1, 10")
		require.NoError(t, err)
		assert.Equal(t, "between", spec.Name)
		require.Len(t, spec.Args, 2)
		assert.Equal(t, "1", spec.Args[0].Text())
		assert.Equal(t, "10", spec.Args[1].Text())
	})

	t.Run("pattern rules keep the remainder verbatim", func(t *testing.T) {
		spec, err := validator.ParseRuleSpec("regex:/^a{1,3}:b$/")
		require.NoError(t, err)
		require.Len(t, spec.Args, 1)
		assert.Equal(t, "/^a{1,3}:b$/", spec.Args[0].Text())
	})

	t.Run("array form keeps typed arguments", func(t *testing.T) {
		spec, err := validator.ParseRuleSpec([]any{"in", []any{1, "two"}})
		require.NoError(t, err)
		assert.Equal(t, "in", spec.Name)
		require.Len(t, spec.Args, 1)
		assert.Equal(t, validator.KindList, spec.Args[0].Kind())
	})

	t.Run("conditional with else branch", func(t *testing.T) {
		spec, err := validator.ParseRuleSpec([]any{"when", []any{"a", "filled"}, []any{"required"}, []any{"nullable", "min:2"}})
		require.NoError(t, err)
		assert.True(t, spec.IsConditional())
		assert.Len(t, spec.Then, 1)
		require.Len(t, spec.Else, 2)
		assert.Equal(t, "min", spec.Else[1].Name)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		for _, raw := range []any{42, nil, []any{}, []any{1, 2}, "Bad-Name", "when", []any{"when", []any{"a", "=", 1}, "required"}} {
			_, err := validator.ParseRuleSpec(raw)
			assert.Error(t, err, "%v", raw)
		}
	})
}

func TestRules_Declarations(t *testing.T) {
	t.Parallel()

	rules := validator.Rules{
		"zeta":  {"string"},
		"alpha": {"required"},
		"mid":   {"integer"},
	}
	decls := rules.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "alpha", decls[0].Field)
	assert.Equal(t, "mid", decls[1].Field)
	assert.Equal(t, "zeta", decls[2].Field)
}
