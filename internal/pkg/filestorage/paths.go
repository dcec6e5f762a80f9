package filestorage

import (
	"path"
	"path/filepath"
	"strings"
)

// CleanRelative normalizes a relative storage path and rejects anything that
// would escape the storage root.
func CleanRelative(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean("/" + p)[1:]
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, "/../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// SafeFileName keeps only the base name of a client-supplied filename.
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// Join builds a relative storage path from its segments.
func Join(elem ...string) string {
	return path.Join(elem...)
}
