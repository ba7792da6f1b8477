package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// patternDelimiters are the characters accepted around a delimited pattern
// such as "/^[a-z]+$/i".
const patternDelimiters = "/#~!@%|"

// compilePattern compiles a rule pattern. Delimited patterns carry trailing
// flags: i, m, s and U map to RE2 flags, x strips whitespace and comments,
// u and D are accepted and ignored. Anything else is compiled as plain RE2.
func compilePattern(expr string) (*regexp.Regexp, error) {
	body, flags, delimited := splitDelimited(expr)
	if !delimited {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return re, nil
	}

	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
			prefix.WriteRune(f)
		case 'x':
			body = stripExtended(body)
		case 'u', 'D':
		default:
			return nil, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidPattern, f, expr)
		}
	}
	if prefix.Len() > 0 {
		body = "(?" + prefix.String() + ")" + body
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

func splitDelimited(expr string) (body, flags string, ok bool) {
	if len(expr) < 2 || !strings.ContainsRune(patternDelimiters, rune(expr[0])) {
		return "", "", false
	}
	end := strings.LastIndexByte(expr, expr[0])
	if end <= 0 {
		return "", "", false
	}
	return expr[1:end], expr[end+1:], true
}

// stripExtended drops unescaped whitespace and #-comments outside character
// classes.
func stripExtended(body string) string {
	var b strings.Builder
	inClass, inComment := false, false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			b.WriteByte(body[i+1])
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
		case c == '[':
			inClass = true
			b.WriteByte(c)
		case c == '#':
			inComment = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
