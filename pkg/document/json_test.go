package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/validator"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("keeps integers and floats apart", func(t *testing.T) {
		v, err := document.DecodeJSON([]byte(`{"count": 3, "price": 9.5, "big": 1e3}`))
		require.NoError(t, err)

		count, _ := v.Key("count")
		assert.Equal(t, validator.KindInt, count.Kind())
		price, _ := v.Key("price")
		assert.Equal(t, validator.KindFloat, price.Kind())
		big, _ := v.Key("big")
		f, ok := big.AsFloat()
		require.True(t, ok)
		assert.Equal(t, 1000.0, f)
	})

	t.Run("decodes nested structures", func(t *testing.T) {
		v, err := document.DecodeJSON([]byte(`{"items": [{"sku": "A1", "tags": []}, null, true]}`))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"items": []any{
				map[string]any{"sku": "A1", "tags": []any{}},
				nil,
				true,
			},
		}, v.Any())
	})

	t.Run("decodes top-level scalars", func(t *testing.T) {
		v, err := document.DecodeJSON([]byte(` "hello" `))
		require.NoError(t, err)
		s, ok := v.AsString()
		require.True(t, ok)
		assert.Equal(t, "hello", s)
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		_, err := document.DecodeJSON([]byte(`{"a": 1, "a": 2}`))
		assert.ErrorIs(t, err, document.ErrInvalidDocument)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := document.DecodeJSON([]byte(`{} {}`))
		assert.ErrorIs(t, err, document.ErrInvalidDocument)
	})

	t.Run("rejects truncated input", func(t *testing.T) {
		_, err := document.DecodeJSON([]byte(`{"a": [1, 2`))
		assert.ErrorIs(t, err, document.ErrInvalidDocument)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := document.DecodeJSON(nil)
		assert.ErrorIs(t, err, document.ErrInvalidDocument)
	})
}
