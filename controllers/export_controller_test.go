package controllers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/export"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
	"github.com/kendall-kelly/whatsapp-order-bot/tests/testutil"
	"github.com/kendall-kelly/whatsapp-order-bot/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/orders/export", DownloadOrders)
	router.POST("/exports", CreateExport)
	router.GET("/exports/:filename", GetExportFile)
	router.DELETE("/exports/:filename", DeleteExportFile)
	return router
}

// setupExportTest seeds orders and points exports at a temporary directory
func setupExportTest(t *testing.T) string {
	db := setupOrderTestDB(t)
	for _, order := range models.SampleOrders() {
		testutil.CreateOrder(t, db, order)
	}

	dir := t.TempDir()
	original := utils.ExportDir
	utils.ExportDir = dir
	t.Cleanup(func() { utils.ExportDir = original })

	services.SetS3Service(nil)
	return dir
}

func TestDownloadOrders_CSV(t *testing.T) {
	setupExportTest(t)

	req, _ := http.NewRequest(http.MethodGet, "/orders/export", nil)
	w := httptest.NewRecorder()
	exportRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="orders_`)

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, export.Columns, records[0])
	assert.Equal(t, "Ahmad Wijaya", records[1][1], "rows follow the dashboard order, newest first")
}

func TestDownloadOrders_XLSX(t *testing.T) {
	setupExportTest(t)

	req, _ := http.NewRequest(http.MethodGet, "/orders/export?format=xlsx", nil)
	w := httptest.NewRecorder()
	exportRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))

	file, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestDownloadOrders_InvalidFormat(t *testing.T) {
	setupExportTest(t)

	w, response := performRequest(t, exportRouter(), http.MethodGet, "/orders/export?format=pdf", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "INVALID_FORMAT")
}

func TestCreateExport(t *testing.T) {
	dir := setupExportTest(t)

	w, response := performRequest(t, exportRouter(), http.MethodPost, "/exports?format=csv", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	filename := data["filename"].(string)
	assert.Equal(t, float64(4), data["order_count"])
	assert.Equal(t, "/api/v1/exports/"+filename, data["url"])
	assert.NotContains(t, data, "archive_key", "no bucket configured")
	assert.FileExists(t, filepath.Join(dir, filename))

	// the saved file can be fetched back
	req, _ := http.NewRequest(http.MethodGet, "/exports/"+filename, nil)
	fetched := httptest.NewRecorder()
	exportRouter().ServeHTTP(fetched, req)

	require.Equal(t, http.StatusOK, fetched.Code)
	saved, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, saved, fetched.Body.Bytes())
	assert.Contains(t, fetched.Header().Get("Content-Disposition"), filename)
}

func TestCreateExport_ArchivesToS3(t *testing.T) {
	setupExportTest(t)
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	defer services.SetS3Service(nil)

	w, response := performRequest(t, exportRouter(), http.MethodPost, "/exports?format=xlsx", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	key := data["archive_key"].(string)
	assert.Equal(t, services.ArchivePrefix+data["filename"].(string), key)
	assert.Contains(t, data["archive_url"], "mock=true")
	assert.True(t, mockS3.FileExists(key))
}

func TestGetExportFile(t *testing.T) {
	dir := setupExportTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders_saved.xlsx"), []byte("xlsx bytes"), 0644))

	tests := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedError  string
	}{
		{"existing xlsx", "orders_saved.xlsx", http.StatusOK, ""},
		{"missing file", "orders_missing.csv", http.StatusNotFound, "FILE_NOT_FOUND"},
		{"unsupported type", "orders.png", http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{"dot dot", "..secret.csv", http.StatusBadRequest, "INVALID_FILENAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/exports/"+tt.filename, nil)
			w := httptest.NewRecorder()
			exportRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError == "" {
				assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
				assert.Equal(t, "xlsx bytes", w.Body.String())
			}
		})
	}
}

func TestDeleteExportFile(t *testing.T) {
	dir := setupExportTest(t)
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	defer services.SetS3Service(nil)

	_, response := performRequest(t, exportRouter(), http.MethodPost, "/exports?format=csv", nil)
	data := response["data"].(map[string]interface{})
	filename := data["filename"].(string)
	key := data["archive_key"].(string)
	require.True(t, mockS3.FileExists(key))

	w, response := performRequest(t, exportRouter(), http.MethodDelete, "/exports/"+filename, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response["success"].(bool))
	assert.NoFileExists(t, filepath.Join(dir, filename))
	assert.False(t, mockS3.FileExists(key), "the archived copy is removed too")

	w, response = performRequest(t, exportRouter(), http.MethodDelete, "/exports/"+filename, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, response, "FILE_NOT_FOUND")

	w, response = performRequest(t, exportRouter(), http.MethodDelete, "/exports/orders.png", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "INVALID_FILE_TYPE")
}
