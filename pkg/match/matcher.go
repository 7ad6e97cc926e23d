// Package match provides glob filtering for object paths using doublestar
// semantics, with static prefix derivation for efficient listing.
package match

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher evaluates include and exclude glob patterns against object paths.
//
// A path matches when it matches at least one include pattern and no
// exclude pattern. An empty include set matches every path.
//
// Safe for concurrent use after creation.
type Matcher struct {
	includes []string
	excludes []string
}

// ErrInvalidPattern is returned when a pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// PatternError wraps pattern errors with the offending pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "pattern " + e.Pattern + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// New creates a Matcher from include and exclude patterns.
// Every pattern is validated up front; an invalid pattern fails construction.
func New(includes, excludes []string) (*Matcher, error) {
	for _, raw := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(raw) {
			return nil, &PatternError{Pattern: raw, Err: ErrInvalidPattern}
		}
	}
	return &Matcher{includes: includes, excludes: excludes}, nil
}

// Match reports whether the path passes the include/exclude patterns.
// Paths are matched as-is: object keys are opaque strings.
func (m *Matcher) Match(path string) bool {
	if len(m.includes) > 0 {
		matched := false
		for _, inc := range m.includes {
			if matchPattern(inc, path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, exc := range m.excludes {
		if matchPattern(exc, path) {
			return false
		}
	}
	return true
}

// Empty reports whether the matcher has no patterns at all.
func (m *Matcher) Empty() bool {
	return len(m.includes) == 0 && len(m.excludes) == 0
}

func matchPattern(pattern, path string) bool {
	// Patterns were validated at construction, so Match cannot fail here.
	matched, err := doublestar.Match(pattern, path)
	if err != nil {
		return false
	}
	return matched
}

// IsHidden reports whether any path segment starts with a dot.
func IsHidden(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
