package util

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// TempFile creates a temporary file with a specific extension
func TempFile(dir, pattern, ext string) (*os.File, error) {
	return os.CreateTemp(dir, pattern+"*"+ext)
}

// CleanupFiles removes multiple files, ignoring errors
func CleanupFiles(paths ...string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}

// OutputPath turns a base name into the mp4 path written by the exporter.
// A name that already carries the extension is returned unchanged.
func OutputPath(base string) string {
	if strings.EqualFold(filepath.Ext(base), ".mp4") {
		return base
	}
	return base + ".mp4"
}
