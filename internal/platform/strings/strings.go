// Package strings provides small string and slice helpers shared by platform code
package strings

import (
	"path"
	std "strings"
	"unicode"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes and asserts a route prefix like /connections.
// It ensures a single leading slash and no trailing slash, panics on an empty root
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// FileStem turns an uploaded file name into a safe base for download names:
// directory and extension dropped, runs of other characters collapsed to '-'.
// "My Connections (1).csv" gives "my-connections-1", def when nothing is left
func FileStem(name, def string) string {
	base := path.Base(std.ReplaceAll(name, `\`, "/"))
	base = std.TrimSuffix(base, path.Ext(base))

	var b std.Builder
	dash := false
	for _, r := range std.ToLower(base) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) || r == '_' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := std.TrimRight(b.String(), "-")
	if out == "" || out == "." {
		return def
	}
	if len(out) > 64 {
		out = std.TrimRight(out[:64], "-")
	}
	return out
}
