package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExportFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantCode string
	}{
		{"csv", "orders_20240115_103000.csv", ""},
		{"xlsx upper case", "orders.XLSX", ""},
		{"empty", "", "INVALID_REQUEST"},
		{"traversal", "../secret.csv", "INVALID_FILENAME"},
		{"slash", "dir/orders.csv", "INVALID_FILENAME"},
		{"backslash", `dir\orders.csv`, "INVALID_FILENAME"},
		{"wrong extension", "orders.png", "INVALID_FILE_TYPE"},
		{"no extension", "orders", "INVALID_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExportFilename(tt.filename)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			exportErr, ok := err.(*ExportFileError)
			require.True(t, ok, "expected *ExportFileError, got %T", err)
			assert.Equal(t, tt.wantCode, exportErr.Code)
		})
	}
}

func TestSaveExportFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	path, err := SaveExportFile(dir, "orders.csv", []byte("id\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orders.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(content))
}

func TestSaveExportFile_RejectsBadName(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveExportFile(dir, "../escape.csv", []byte("x"))
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetExportURL(t *testing.T) {
	assert.Equal(t, "/api/v1/exports/orders.csv", GetExportURL("orders.csv"))
	assert.Equal(t, "", GetExportURL(""))
}

func TestExportPath(t *testing.T) {
	original := ExportDir
	defer func() { ExportDir = original }()

	ExportDir = "/tmp/exports"
	assert.Equal(t, filepath.Join("/tmp/exports", "orders.xlsx"), ExportPath("orders.xlsx"))
}

func TestDeleteExportFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveExportFile(dir, "orders.csv", []byte("id\n"))
	require.NoError(t, err)

	require.NoError(t, DeleteExportFile(dir, "orders.csv"))
	assert.NoFileExists(t, path)

	err = DeleteExportFile(dir, "orders.csv")
	assert.ErrorIs(t, err, fs.ErrNotExist, "deleting twice reports the file as missing")

	var fileErr *ExportFileError
	require.ErrorAs(t, DeleteExportFile(dir, "../orders.csv"), &fileErr)
	assert.Equal(t, "INVALID_FILENAME", fileErr.Code)
}
