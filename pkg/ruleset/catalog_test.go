package ruleset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("compiles once per content", func(t *testing.T) {
		store, err := ruleset.NewMemoryStore(mustParse(t, "orders", `{"total": ["required", "numeric"]}`, document.FormatJSON))
		require.NoError(t, err)
		catalog := ruleset.NewCatalog(store)

		v1, rs, err := catalog.Validator(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, "orders", rs.Name)

		v2, _, err := catalog.Validator(ctx, "orders")
		require.NoError(t, err)
		assert.Same(t, v1, v2)
		assert.Equal(t, 1, catalog.Len())

		res := v1.Validate(map[string]any{"total": "abc"})
		assert.True(t, res.HasError("total"))
	})

	t.Run("recompiles after an update", func(t *testing.T) {
		store, err := ruleset.NewMemoryStore(mustParse(t, "orders", `{"total": ["required"]}`, document.FormatJSON))
		require.NoError(t, err)
		catalog := ruleset.NewCatalog(store)

		before, _, err := catalog.Validator(ctx, "orders")
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, mustParse(t, "orders", `{"total": ["required", "numeric"]}`, document.FormatJSON)))
		after, _, err := catalog.Validator(ctx, "orders")
		require.NoError(t, err)

		assert.NotSame(t, before, after)
		assert.Equal(t, []string{"total"}, after.Fields())
	})

	t.Run("invalidate drops every version", func(t *testing.T) {
		store, err := ruleset.NewMemoryStore(
			mustParse(t, "orders", `{"total": ["required"]}`, document.FormatJSON),
			mustParse(t, "orders-v2", `{"total": ["required"]}`, document.FormatJSON),
		)
		require.NoError(t, err)
		catalog := ruleset.NewCatalog(store)

		_, _, err = catalog.Validator(ctx, "orders")
		require.NoError(t, err)
		_, _, err = catalog.Validator(ctx, "orders-v2")
		require.NoError(t, err)

		catalog.Invalidate("orders")
		assert.Equal(t, 1, catalog.Len())
	})

	t.Run("reports missing and broken rule sets", func(t *testing.T) {
		store, err := ruleset.NewMemoryStore(mustParse(t, "broken", `{"total": ["no_such_rule"]}`, document.FormatJSON))
		require.NoError(t, err)
		catalog := ruleset.NewCatalog(store)

		_, _, err = catalog.Validator(ctx, "missing")
		assert.ErrorIs(t, err, ruleset.ErrNotFound)

		_, rs, err := catalog.Validator(ctx, "broken")
		assert.ErrorIs(t, err, ruleset.ErrInvalidRuleset)
		assert.ErrorIs(t, err, validator.ErrUnknownRule)
		assert.NotNil(t, rs)
		assert.Zero(t, catalog.Len())
	})

	t.Run("uses the configured registry", func(t *testing.T) {
		reg, err := validator.NewRegistry(func(r *validator.Registry) error {
			return r.RegisterFunc("even", func(f validator.Field, _ []validator.Value) validator.Outcome {
				if n, ok := f.Value.AsInt(); ok && n%2 == 0 {
					return validator.Pass()
				}
				return validator.Fail("must be even", nil)
			})
		})
		require.NoError(t, err)

		store, err := ruleset.NewMemoryStore(mustParse(t, "numbers", `{"n": ["even"]}`, document.FormatJSON))
		require.NoError(t, err)
		catalog := ruleset.NewCatalog(store,
			ruleset.WithCacheSize(4),
			ruleset.WithValidatorOptions(validator.WithRegistry(reg)),
		)

		v, _, err := catalog.Validator(ctx, "numbers")
		require.NoError(t, err)
		assert.True(t, v.Validate(map[string]any{"n": 3}).HasError("n"))
		assert.False(t, v.Validate(map[string]any{"n": 4}).Failed())
	})
}
