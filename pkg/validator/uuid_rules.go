package validator

import (
	"github.com/google/uuid"
)

const uuidLength = 36

func uuidRules(r *Registry) error {
	return register(r, map[string]Builder{
		"uuid": stringRule("must be a valid UUID", isUUID),
	})
}

// isUUID accepts only the canonical hyphenated form. uuid.Parse alone would
// also accept braces, URNs and the bare 32-digit form.
func isUUID(s string) bool {
	if len(s) != uuidLength {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
