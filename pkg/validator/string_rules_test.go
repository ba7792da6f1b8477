package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule    any
		valid   []any
		invalid []any
	}{
		{"alpha", []any{"abc", "Žaba", "Ωmega"}, []any{"abc1", "a b", "a-b", 1}},
		{"alpha_num", []any{"abc123", "Čvor9"}, []any{"abc-1", "a b", "a_b"}},
		{"alpha_dash", []any{"abc-123_x", "dž_1"}, []any{"a b", "a.b", "a@b"}},
		{"lowercase", []any{"hello", "čćž", "abc 123"}, []any{"Hello", "ČĆŽ", 1}},
		{"uppercase", []any{"HELLO", "ČĆŽ", "ABC 123"}, []any{"Hello", "čćž"}},
		{"starts_with:https", []any{"https://example.com"}, []any{"http://example.com", 1}},
		{"ends_with:.pdf", []any{"report.pdf"}, []any{"report.doc"}},
		{"contains:@", []any{"me@example.com"}, []any{"example.com"}},
	}

	for _, tt := range tests {
		for _, v := range tt.valid {
			assert.True(t, passes(t, tt.rule, v), "expected %v to pass %v", v, tt.rule)
		}
		for _, v := range tt.invalid {
			assert.False(t, passes(t, tt.rule, v), "expected %v to fail %v", v, tt.rule)
		}
	}
}
