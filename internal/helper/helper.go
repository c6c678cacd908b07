package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash8 is used to log emails without leaking them.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:8])
}

// Truncate cuts s to n runes and appends "..." when something was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
