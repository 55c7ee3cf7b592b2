package utils

import (
	"os"
	"path/filepath"
)

// IsFile tests whether given path exists and is a regular file
func IsFile(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// IsDirectory tests whether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// ParentDirectory returns the directory a file at filePath would be created in
func ParentDirectory(filePath string) string {
	dir := filepath.Dir(filePath)
	if dir == "" {
		return "."
	}
	return dir
}
