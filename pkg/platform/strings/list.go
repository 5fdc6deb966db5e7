// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits s on sep, trims each element and drops empty and repeated
// ones. Order is preserved.
//
// Example:
//
//	SplitList(" a:9092, b:9092,,a:9092 ", ",")
//	// Returns: []string{"a:9092", "b:9092"}
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}
