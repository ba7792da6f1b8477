package validator

func identifierRules(r *Registry) error {
	return register(r, map[string]Builder{
		"oib":   stringRule("must be a valid OIB", isOIB),
		"phone": stringRule("must be a valid phone number", isPhone),
	})
}

const oibLength = 11

// isOIB checks a Croatian personal identification number: eleven digits, the
// last one an ISO 7064 MOD 11,10 check digit over the first ten.
func isOIB(s string) bool {
	if len(s) != oibLength {
		return false
	}
	zeros := 0
	for i := range oibLength {
		if !isDigit(s[i]) {
			return false
		}
		if s[i] == '0' {
			zeros++
		}
	}
	if zeros == oibLength {
		return false
	}

	t := 10
	for i := range oibLength - 1 {
		t = (int(s[i]-'0') + t) % 10
		if t == 0 {
			t = 10
		}
		t = (t * 2) % 11
	}
	return (11-t)%10 == int(s[oibLength-1]-'0')
}

// isPhone accepts 7 to 20 characters: digits, a leading '+', and spaces,
// dashes or parentheses as separators. At least seven must be digits.
func isPhone(s string) bool {
	if len(s) < 7 || len(s) > 20 {
		return false
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isDigit(c):
			digits++
		case c == '+':
			if i != 0 {
				return false
			}
		case c == ' ' || c == '-' || c == '(' || c == ')':
		default:
			return false
		}
	}
	return digits >= 7
}
