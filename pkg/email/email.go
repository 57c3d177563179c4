// Package email holds helpers for working with account email addresses.
package email

import (
	"strings"
	"unicode"
)

const fallbackName = "Resident"

// DisplayName builds a readable name from the local part of an address,
// splitting on dots, underscores, hyphens and plus signs.
// "jane.doe+gate@example.com" becomes "Jane Doe".
func DisplayName(address string) string {
	local := strings.TrimSpace(address)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return fallbackName
	}
	if len(parts) > 2 {
		parts = []string{parts[0], parts[len(parts)-1]}
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
