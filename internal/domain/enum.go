package domain

import (
	"fmt"
	"strings"
)

// API values are lowercase and hyphenated ("full-time"); stored values are the constant names.
func enumFromAPI(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}

func enumToAPI(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}

func parseEnum[T ~string](kind, raw string, allowed ...T) (T, error) {
	v := T(enumFromAPI(raw))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}
