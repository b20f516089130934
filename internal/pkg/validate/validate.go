// Package validate holds request-level checks shared by the HTTP handlers.
package validate

import (
	"strconv"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Limit parses an optional page size. Empty means zero, which services
// replace with their default.
func Limit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
