// Package pathutil holds path helpers that compare paths segment by segment
// rather than as raw strings.
package pathutil

import (
	"path/filepath"
	"strings"
)

// HasPrefix reports whether path equals prefix or lies beneath it.
// Matching is done on whole path segments, so "/proj" is not a prefix of
// "/proj2/a.c".
func HasPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		// Filesystem roots ("/", `C:\`) already end in a separator.
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// ReplacePrefix swaps oldPrefix for newPrefix at the start of path. ok is
// false, and path comes back unchanged, when oldPrefix does not match.
func ReplacePrefix(path, oldPrefix, newPrefix string) (string, bool) {
	if !HasPrefix(path, oldPrefix) {
		return path, false
	}
	rest := strings.TrimPrefix(filepath.Clean(path), filepath.Clean(oldPrefix))
	rest = strings.TrimPrefix(rest, string(filepath.Separator))
	if rest == "" {
		return filepath.Clean(newPrefix), true
	}
	return filepath.Join(newPrefix, rest), true
}

// SplitQuoted strips one pair of surrounding double quotes, as passed by
// shells and file managers for paths containing spaces.
func SplitQuoted(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		return path[1 : len(path)-1]
	}
	return path
}

// IsHidden reports whether a directory entry name is a dot-file
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
