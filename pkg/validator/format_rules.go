package validator

import (
	"net/netip"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-json-experiment/json/jsontext"
)

const (
	emailMinLength       = 3
	emailMaxLength       = 254
	emailLocalMaxLength  = 64
	emailDomainMaxLength = 253
)

func formatRules(r *Registry) error {
	return register(r, map[string]Builder{
		"email": stringRule("must be a valid email address", isEmail),
		"url":   stringRule("must be a valid URL", isURL),
		"ip":    stringRule("must be a valid IP address", isIP(func(netip.Addr) bool { return true })),
		"ipv4":  stringRule("must be a valid IPv4 address", isIP(netip.Addr.Is4)),
		"ipv6":  stringRule("must be a valid IPv6 address", isIP(netip.Addr.Is6)),
		"json":  stringRule("must be a valid JSON string", isJSON),
	})
}

// isEmail is a structural check, not RFC 5322 parsing: one '@', bounded
// local and domain parts, and a dot inside the domain.
func isEmail(s string) bool {
	if len(s) < emailMinLength || len(s) > emailMaxLength {
		return false
	}
	if strings.ContainsFunc(s, unicode.IsSpace) || strings.ContainsRune(s, 0) {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return false
	}
	if len(local) < 1 || len(local) > emailLocalMaxLength {
		return false
	}
	if len(domain) < 1 || len(domain) > emailDomainMaxLength {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// isURL accepts absolute http and https URLs with a host.
func isURL(s string) bool {
	if strings.ContainsFunc(s, unicode.IsControl) {
		return false
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Host != "" && u.Hostname() != ""
}

// isIP accepts textual addresses without zone that satisfy family.
func isIP(family func(netip.Addr) bool) func(string) bool {
	return func(s string) bool {
		addr, err := netip.ParseAddr(s)
		if err != nil || addr.Zone() != "" {
			return false
		}
		return family(addr)
	}
}

func isJSON(s string) bool {
	return jsontext.Value(s).IsValid()
}
