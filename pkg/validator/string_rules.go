package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func stringRules(r *Registry) error {
	return register(r, map[string]Builder{
		"alpha":       stringRule("must contain only letters", onlyRunes(unicode.IsLetter)),
		"alpha_num":   stringRule("must contain only letters and numbers", onlyRunes(isAlphaNum)),
		"alpha_dash":  stringRule("must contain only letters, numbers, dashes and underscores", onlyRunes(isAlphaDash)),
		"lowercase":   stringRule("must be lowercase", isLowercase),
		"uppercase":   stringRule("must be uppercase", isUppercase),
		"starts_with": affixRule("must start with", strings.HasPrefix),
		"ends_with":   affixRule("must end with", strings.HasSuffix),
		"contains":    affixRule("must contain", strings.Contains),
	})
}

// onlyRunes accepts valid UTF-8 strings whose every rune satisfies ok.
func onlyRunes(ok func(rune) bool) func(string) bool {
	return func(s string) bool {
		if !utf8.ValidString(s) {
			return false
		}
		for _, r := range s {
			if !ok(r) {
				return false
			}
		}
		return true
	}
}

func isAlphaNum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isAlphaDash(r rune) bool {
	return isAlphaNum(r) || r == '-' || r == '_'
}

// A Caser is stateful, so each call builds its own.
func isLowercase(s string) bool {
	return cases.Lower(language.Und).String(s) == s
}

func isUppercase(s string) bool {
	return cases.Upper(language.Und).String(s) == s
}

// affixRule builds a substring rule. The value must be a string.
func affixRule(relation string, match func(s, sub string) bool) Builder {
	return func(p Params) (Check, error) {
		sub, err := p.String(0)
		if err != nil {
			return nil, err
		}
		message := relation + " " + sub
		params := map[string]any{"value": sub}

		return func(f Field) Outcome {
			s, ok := f.Value.AsString()
			if ok && match(s, sub) {
				return Pass()
			}
			return Fail(message, params)
		}, nil
	}
}
