package bucketfs

import "strings"

// Separator is the hierarchy delimiter in object keys.
const Separator = "/"

// NormalizeDirectoryKey converts a path to its directory key form: all
// trailing separators are stripped and exactly one is appended.
//
// The result is used both as the marker object key and as the listing
// prefix for the directory. Idempotent.
//
// The bucket root normalizes to the empty prefix: it has no marker
// object and its listing prefix matches every key.
func NormalizeDirectoryKey(path string) string {
	trimmed := strings.TrimRight(path, Separator)
	if trimmed == "" {
		return ""
	}
	return trimmed + Separator
}

// hasExtension reports whether the last segment of path carries a
// conventional file extension: a '.' after the segment's first character.
//
// Names like ".profile" or "archive" have no extension; "a.txt" and
// "logs/app.2024.log" do.
func hasExtension(path string) bool {
	segment := path
	if idx := strings.LastIndex(path, Separator); idx >= 0 {
		segment = path[idx+len(Separator):]
	}
	return strings.LastIndex(segment, ".") > 0
}

// isDirectoryKey reports whether key denotes a directory by convention:
// a key ending in the separator is always a directory, one that does not
// is always a file.
func isDirectoryKey(key string) bool {
	return strings.HasSuffix(key, Separator)
}
