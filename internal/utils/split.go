// Package utils holds small helpers shared by the commands and front ends.
package utils

import "strings"

// SplitAndTrim splits s on sep, trims each part and drops empty parts and
// repeats. Repeats are matched without regard to case; the first spelling wins.
func SplitAndTrim(s, sep string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		key := strings.ToLower(part)
		if part == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, part)
	}
	return out
}
