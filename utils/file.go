package utils

import (
	"os"
	"path/filepath"
)

// EnsureUploadDir creates the uploads directory if it doesn't exist
func EnsureUploadDir() error {
	return os.MkdirAll(filepath.Join("uploads", "exports"), os.ModePerm)
}

// SaveLocalFile writes data inside the uploads directory and returns the
// web path it is served from.
func SaveLocalFile(data []byte, filename string) (string, error) {
	destPath := GetUploadPath(filename)
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(destPath), nil
}

// GetUploadPath returns the full path for a file inside the uploads directory
func GetUploadPath(filename string) string {
	return filepath.Join("uploads", filename)
}
