package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ExportDir is the directory where generated exports are stored
	// Can be overridden for testing
	ExportDir = "./exports"

	allowedExportExtensions = map[string]bool{".csv": true, ".xlsx": true}
)

// ExportFileError represents an invalid export file request
type ExportFileError struct {
	Code    string
	Message string
}

func (e *ExportFileError) Error() string {
	return e.Message
}

// ValidateExportFilename rejects empty names, path traversal and unsupported extensions
func ValidateExportFilename(filename string) error {
	if filename == "" {
		return &ExportFileError{Code: "INVALID_REQUEST", Message: "Filename is required"}
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return &ExportFileError{Code: "INVALID_FILENAME", Message: "Invalid filename"}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExportExtensions[ext] {
		return &ExportFileError{Code: "INVALID_FILE_TYPE", Message: "Only .csv and .xlsx exports are supported"}
	}

	return nil
}

// SaveExportFile writes content to dir/filename, creating dir if needed.
// Returns the full path of the written file.
func SaveExportFile(dir, filename string, content []byte) (string, error) {
	if err := ValidateExportFilename(filename); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	fullPath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	return fullPath, nil
}

// DeleteExportFile removes dir/filename. A missing file yields an error
// matching fs.ErrNotExist.
func DeleteExportFile(dir, filename string) error {
	if err := ValidateExportFilename(filename); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, filename)); err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return nil
}

// ExportPath returns the on-disk location of a saved export
func ExportPath(filename string) string {
	return filepath.Join(ExportDir, filename)
}

// GetExportURL returns the URL path for downloading a saved export
func GetExportURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/exports/%s", filename)
}
