package match

import "strings"

// DerivePrefix extracts the longest static prefix from a glob pattern,
// truncated to the last complete path segment. The prefix is usable as a
// listing filter against the store.
//
// Examples:
//
//	"data/2024/**/*.parquet" → "data/2024/"
//	"*.json"                 → ""
//	"logs/app-{a,b}/*.log"   → "logs/"
//	"exact/path/file.txt"    → "exact/path/file.txt"
func DerivePrefix(pattern string) string {
	metaIdx := firstMetaIndex(pattern)
	if metaIdx == -1 {
		return pattern
	}
	if metaIdx == 0 {
		return ""
	}

	// Truncate to the last complete path segment so a partial segment
	// like "data/2024-" does not over-filter.
	prefix := pattern[:metaIdx]
	lastSlash := strings.LastIndex(prefix, "/")
	if lastSlash < 0 {
		return ""
	}
	return prefix[:lastSlash+1]
}

// IsGlobPattern reports whether the pattern contains glob metacharacters.
func IsGlobPattern(pattern string) bool {
	return firstMetaIndex(pattern) != -1
}

// firstMetaIndex returns the index of the first unescaped glob
// metacharacter, or -1 when the pattern is a plain path. Backslash escapes
// make the following metacharacter literal.
func firstMetaIndex(pattern string) int {
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			i++
			continue
		}
		if c == '*' || c == '?' || c == '[' || c == '{' {
			return i
		}
	}
	return -1
}
