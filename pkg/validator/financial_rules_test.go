package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIBAN(t *testing.T) {
	t.Parallel()

	for _, v := range []any{
		"HR1210010051863000160",
		"DE89370400440532013000",
		"GB82 WEST 1234 5698 7654 32",
		"gb82west12345698765432",
	} {
		assert.True(t, passes(t, "iban", v), "expected %q to pass", v)
	}
	for _, v := range []any{
		"HR1210010051863000161", // checksum
		"DE8937040044",          // too short
		"1289370400440532013000",
		"DE89-3704-0044-0532-0130-00",
		1234567890123456,
	} {
		assert.False(t, passes(t, "iban", v), "expected %v to fail", v)
	}
}

func TestVATEU(t *testing.T) {
	t.Parallel()

	for _, v := range []any{"HR12345678901", "DE123456789", "ATU12345678", "nl 8000 12345 B01"} {
		assert.True(t, passes(t, "vat_eu", v), "expected %q to pass", v)
	}
	for _, v := range []any{"123456789", "H1", "DE-123456789", "DE1234567890123"} {
		assert.False(t, passes(t, "vat_eu", v), "expected %q to fail", v)
	}
}
