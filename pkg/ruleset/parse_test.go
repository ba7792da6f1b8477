package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/ruleset"
)

const signupYAML = `
name: signup
description: Account signup payload
rules:
  username: [required, [min, 3]]
  email: [required, email]
  age: integer
  company_name:
    - [when, [type, "=", business], [required, string]]
`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("yaml with metadata keeps field order", func(t *testing.T) {
		rs, err := ruleset.Parse([]byte(signupYAML), document.FormatYAML)
		require.NoError(t, err)

		assert.Equal(t, "signup", rs.Name)
		assert.Equal(t, "Account signup payload", rs.Description)
		assert.Equal(t, document.FormatYAML, rs.Format)
		assert.Equal(t, []string{"username", "email", "age", "company_name"}, rs.Fields())
		assert.Len(t, rs.Digest(), 64)
	})

	t.Run("json with metadata keeps field order", func(t *testing.T) {
		rs, err := ruleset.Parse([]byte(`{
			"rules": {"zeta": ["required"], "alpha": ["email"], "items.*.sku": [["regex", "/^[A-Z]+$/"]]},
			"name": "orders"
		}`), document.FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, "orders", rs.Name)
		assert.Equal(t, []string{"zeta", "alpha", "items.*.sku"}, rs.Fields())
	})

	t.Run("bare rules mapping", func(t *testing.T) {
		rs, err := ruleset.Parse([]byte(`{"name": ["required", "string"], "email": "email"}`), document.FormatJSON)
		require.NoError(t, err)

		assert.Empty(t, rs.Name)
		assert.Equal(t, []string{"name", "email"}, rs.Fields())
		assert.Len(t, rs.Declarations[1].Rules, 1)
	})

	t.Run("parsed rules compile and validate", func(t *testing.T) {
		rs, err := ruleset.Parse([]byte(signupYAML), document.FormatYAML)
		require.NoError(t, err)

		v, err := rs.Compile()
		require.NoError(t, err)

		res := v.Validate(map[string]any{"username": "al", "email": "al@example.com", "type": "business"})
		assert.True(t, res.HasError("username"))
		assert.True(t, res.HasError("company_name"))
		assert.False(t, res.HasError("email"))
	})

	t.Run("digest follows the source", func(t *testing.T) {
		a, err := ruleset.Parse([]byte(`{"a": ["required"]}`), document.FormatJSON)
		require.NoError(t, err)
		b, err := ruleset.Parse([]byte(`{"a": ["required"]}`), document.FormatJSON)
		require.NoError(t, err)
		c, err := ruleset.Parse([]byte(`{"a": ["required", "string"]}`), document.FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, a.Digest(), b.Digest())
		assert.NotEqual(t, a.Digest(), c.Digest())
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		format document.Format
		err    error
	}{
		{"json top level is a list", `[1, 2]`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"json duplicate field", `{"rules": {"a": ["required"], "a": ["email"]}}`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"json rules is not an object", `{"rules": ["required"]}`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"json unknown metadata key", `{"rules": {}, "version": 2}`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"json field rules are a number", `{"a": 3}`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"json trailing data", `{"a": ["required"]} []`, document.FormatJSON, ruleset.ErrInvalidRuleset},
		{"yaml top level is a scalar", `hello`, document.FormatYAML, ruleset.ErrInvalidRuleset},
		{"yaml duplicate field", "rules:\n  a: [required]\n  a: [email]\n", document.FormatYAML, ruleset.ErrInvalidRuleset},
		{"yaml name is a list", "name: [a]\nrules: {}\n", document.FormatYAML, ruleset.ErrInvalidRuleset},
		{"invalid name", "name: Sign Up\nrules: {}\n", document.FormatYAML, ruleset.ErrInvalidName},
		{"unsupported format", `{}`, document.Format("toml"), document.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ruleset.Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("compile errors wrap the sentinel", func(t *testing.T) {
		rs, err := ruleset.Parse([]byte(`{"a": ["no_such_rule"]}`), document.FormatJSON)
		require.NoError(t, err)

		_, err = rs.Compile()
		assert.ErrorIs(t, err, ruleset.ErrInvalidRuleset)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Checkout.yml")
	require.NoError(t, os.WriteFile(path, []byte("total: [required, numeric]\n"), 0o600))

	rs, err := ruleset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout", rs.Name)
	assert.Equal(t, []string{"total"}, rs.Fields())

	_, err = ruleset.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = ruleset.LoadFile(filepath.Join(dir, "rules.txt"))
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"signup", "orders-v2", "a", "order_items"} {
		assert.NoError(t, ruleset.ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "Signup", "-lead", "a.b", "a/b", string(make([]byte, 70))} {
		assert.ErrorIs(t, ruleset.ValidateName(bad), ruleset.ErrInvalidName, bad)
	}
}
