package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// SanitizeFileName removes path separators and control characters and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// BaseName returns the file name without directory or extension, falling back to def.
func BaseName(name, def string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(clean)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return def
	}
	if sanitized, err := SanitizeFileName(base); err == nil {
		return sanitized
	}
	return def
}
