// Package toolutil provides input helpers shared by the HTTP API and the MCP tools.
package toolutil

import "strings"

// NormLanguages trims language codes and drops blanks and duplicates,
// keeping the caller's priority order. Returns nil when nothing remains so
// that an all-blank list behaves like an omitted one.
func NormLanguages(langs []string) []string {
	var out []string
	seen := make(map[string]bool, len(langs))
	for _, l := range langs {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// NormURL trims surrounding whitespace from a user-supplied URL.
func NormURL(u string) string {
	return strings.TrimSpace(u)
}
