package validate

import (
	"fmt"

	"github.com/gruppe-adler/aig-utils/internal/utils"
)

// InputFile validates that given path is an existing file
func InputFile(filePath string) error {
	if !utils.IsFile(filePath) {
		return fmt.Errorf("%s does not exist or is no file", filePath)
	}
	return nil
}

// OutputFile validates that a file can be created at given path, i.e. its
// directory exists and the path itself is no directory
func OutputFile(filePath string) error {
	if utils.IsDirectory(filePath) {
		return fmt.Errorf("%s is a directory", filePath)
	}

	dir := utils.ParentDirectory(filePath)
	if !utils.IsDirectory(dir) {
		return fmt.Errorf("%s does not exist or is no directory", dir)
	}
	return nil
}

// OutputDirectory validates that given path is an existing directory
func OutputDirectory(dirPath string) error {
	if !utils.IsDirectory(dirPath) {
		return fmt.Errorf("%s does not exist or is no directory", dirPath)
	}
	return nil
}
