package utils

import "strings"

// NormalizeSubjectNames lowercases, trims and de-duplicates subject names,
// preserving first-seen order.
func NormalizeSubjectNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
