package types

import "strings"

// NormalizeEmail is the join key between identity assertions and stored rows.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
