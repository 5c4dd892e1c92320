package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "phorg/internal/errors"
)

// SanitizePath collapses redundant separators and "." / ".." segments and
// rejects any path that would escape its root after normalization. The
// returned path is what the rest of the pipeline operates on.
func SanitizePath(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.New(apperrors.InvalidPath, "sanitize", raw, "empty path")
	}
	if escapesRoot(raw) {
		return "", apperrors.New(apperrors.InvalidPath, "sanitize", raw, "parent traversal")
	}
	clean := filepath.Clean(raw)
	if escapesRoot(clean) {
		return "", apperrors.New(apperrors.InvalidPath, "sanitize", raw,
			fmt.Sprintf("parent traversal after normalization (%s)", clean))
	}
	return clean, nil
}

// escapesRoot reports whether the path begins with a ".." segment. After
// filepath.Clean any surviving ".." segments are leading ones, so this check
// covers forms like "../x" as well as "a/../../x" once cleaned.
func escapesRoot(path string) bool {
	if path == ".." {
		return true
	}
	return strings.HasPrefix(path, ".."+string(filepath.Separator))
}
