package validator

import (
	"strings"
)

const (
	ibanMinLength  = 15
	ibanMaxLength  = 34
	vatMinLength   = 4
	vatMaxLength   = 14
	ibanCheckValue = 1
)

func financialRules(r *Registry) error {
	return register(r, map[string]Builder{
		"iban":   stringRule("must be a valid IBAN", isIBAN),
		"vat_eu": stringRule("must be a valid EU VAT number", isVATEU),
	})
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// isIBAN checks the shape of an IBAN and its MOD 97 checksum. Spaces are
// ignored and letters may be lowercase.
func isIBAN(s string) bool {
	s = strings.ToUpper(stripSpaces(s))
	if len(s) < ibanMinLength || len(s) > ibanMaxLength {
		return false
	}
	if !isUpperLetter(s[0]) || !isUpperLetter(s[1]) || !isDigit(s[2]) || !isDigit(s[3]) {
		return false
	}

	// The country code and check digits move to the end; letters count as
	// 10 to 35.
	remainder := 0
	for _, c := range []byte(s[4:] + s[:4]) {
		switch {
		case isDigit(c):
			remainder = (remainder*10 + int(c-'0')) % 97
		case isUpperLetter(c):
			remainder = (remainder*100 + int(c-'A') + 10) % 97
		default:
			return false
		}
	}
	return remainder == ibanCheckValue
}

// isVATEU checks the shape of an EU VAT number: a two-letter country prefix
// followed by letters and digits. Spaces are ignored.
func isVATEU(s string) bool {
	s = stripSpaces(s)
	if len(s) < vatMinLength || len(s) > vatMaxLength {
		return false
	}
	if !isLetter(s[0]) || !isLetter(s[1]) {
		return false
	}
	for i := 2; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isUpperLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLetter(c byte) bool { return isUpperLetter(c) || (c >= 'a' && c <= 'z') }
