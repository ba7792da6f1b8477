package validator

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats accepted by date and by the date comparison
// rules, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func dateRules(r *Registry) error {
	return register(r, map[string]Builder{
		"date":            fixed("must be a valid date", func(v Value) bool { _, ok := parseDate(v); return ok }),
		"date_format":     dateFormatRule,
		"after":           compareDate("after", func(c int) bool { return c > 0 }),
		"after_or_equal":  compareDate("after or equal to", func(c int) bool { return c >= 0 }),
		"before":          compareDate("before", func(c int) bool { return c < 0 }),
		"before_or_equal": compareDate("before or equal to", func(c int) bool { return c <= 0 }),
	})
}

func parseDate(v Value) (time.Time, bool) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	return parseDateString(s)
}

func parseDateString(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateFormatRule binds a PHP-style format such as "d/m/Y H:i". The value must
// parse with it and format back to the same text.
func dateFormatRule(p Params) (Check, error) {
	format, err := p.String(0)
	if err != nil {
		return nil, err
	}
	layout, err := translateDateFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: rule 'date_format': %w", ErrInvalidParameter, err)
	}
	params := map[string]any{"format": format}

	return func(f Field) Outcome {
		s, ok := f.Value.AsString()
		if ok {
			if t, err := time.Parse(layout, s); err == nil && t.Format(layout) == s {
				return Pass()
			}
		}
		return Fail("must match the format "+format, params)
	}, nil
}

var dateFormatTokens = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'n': "1",
	'd': "02",
	'j': "2",
	'H': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
	'D': "Mon",
	'l': "Monday",
	'M': "Jan",
	'F': "January",
	'T': "MST",
	'P': "-07:00",
	'O': "-0700",
	'v': "000",
	'u': "000000",
}

// translateDateFormat turns a PHP date format into a Go layout. A backslash
// escapes the next character. Letters without a Go equivalent and literal
// digits, which Go would read as layout elements, are rejected.
func translateDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("empty date format")
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '\\':
			i++
			if i == len(format) {
				return "", fmt.Errorf("dangling escape in %q", format)
			}
			if isDigit(format[i]) {
				return "", fmt.Errorf("literal digit in %q", format)
			}
			b.WriteByte(format[i])
		case dateFormatTokens[c] != "":
			if c == 'v' || c == 'u' {
				if b.Len() == 0 || !strings.HasSuffix(b.String(), ".") {
					return "", fmt.Errorf("fraction token %q must follow a dot", c)
				}
			}
			b.WriteString(dateFormatTokens[c])
		case isDigit(c):
			return "", fmt.Errorf("literal digit in %q", format)
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			return "", fmt.Errorf("unsupported format character %q", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// compareDate builds a rule comparing the value with a date. The argument is
// a date literal when it parses as one and a field reference otherwise.
func compareDate(relation string, accept func(int) bool) Builder {
	return func(p Params) (Check, error) {
		arg, err := p.String(0)
		if err != nil {
			return nil, err
		}
		message := fmt.Sprintf("must be a date %s %s", relation, arg)
		params := map[string]any{"date": arg}

		var reference func(Field) (time.Time, bool)
		if t, ok := parseDateString(arg); ok {
			reference = func(Field) (time.Time, bool) { return t, true }
		} else {
			other, err := ParsePath(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: rule '%s' requires a date or a field name", ErrInvalidParameter, p.Rule())
			}
			reference = func(f Field) (time.Time, bool) {
				ov, ok := f.Lookup(other)
				if !ok {
					return time.Time{}, false
				}
				return parseDate(ov)
			}
		}

		return func(f Field) Outcome {
			t, ok := parseDate(f.Value)
			if !ok {
				return Fail(message, params)
			}
			ref, ok := reference(f)
			if !ok || !accept(t.Compare(ref)) {
				return Fail(message, params)
			}
			return Pass()
		}, nil
	}
}
