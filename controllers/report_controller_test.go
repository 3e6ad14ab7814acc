package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/reports/summary", GetSummary)
	router.GET("/reports/status", GetStatusReport)
	router.GET("/reports/top-customers", GetTopCustomers)
	router.GET("/reports/top-items", GetTopItems)
	router.GET("/reports/hourly", GetHourlyReport)
	return router
}

// setupReportTest seeds the sample orders and pins the report clock to the afternoon of the seed day
func setupReportTest(t *testing.T) {
	db := setupOrderTestDB(t)
	for _, order := range models.SampleOrders() {
		testutil.CreateOrder(t, db, order)
	}

	original := reportNow
	reportNow = func() time.Time { return time.Date(2024, 1, 15, 15, 0, 0, 0, time.Local) }
	t.Cleanup(func() { reportNow = original })
}

func TestGetSummary(t *testing.T) {
	setupReportTest(t)

	w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total_orders"])
	assert.Equal(t, float64(4), data["today_orders"])
	assert.Equal(t, float64(3), data["open_orders"])
	assert.Equal(t, float64(55000), data["monthly_revenue"], "only the completed order counts as revenue")

	statusCounts := data["status_counts"].(map[string]interface{})
	assert.Equal(t, float64(1), statusCounts["completed"])
	assert.NotContains(t, statusCounts, "cancelled")

	hourly := data["hourly_orders"].([]interface{})
	assert.Len(t, hourly, 24)
}

func TestGetStatusReport(t *testing.T) {
	setupReportTest(t)

	w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, map[string]interface{}{
		"completed":  float64(1),
		"processing": float64(1),
		"confirmed":  float64(1),
		"pending":    float64(1),
	}, response["data"])
}

func TestGetTopCustomers(t *testing.T) {
	setupReportTest(t)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
		expectedError  string
	}{
		{"default limit", "", http.StatusOK, 4, ""},
		{"explicit limit", "?limit=2", http.StatusOK, 2, ""},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0, "INVALID_LIMIT"},
		{"non-numeric limit", "?limit=ten", http.StatusBadRequest, 0, "INVALID_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/top-customers"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assertErrorCode(t, response, tt.expectedError)
				return
			}

			data := response["data"].([]interface{})
			require.Len(t, data, tt.expectedCount)
			first := data[0].(map[string]interface{})
			assert.Equal(t, "+628112233445", first["customer_wa"], "Ahmad spent the most")
			assert.Equal(t, float64(65000), first["total_spend"])
		})
	}
}

func TestGetTopItems(t *testing.T) {
	setupReportTest(t)

	w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/top-items?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].([]interface{})
	require.Len(t, data, 1)
	top := data[0].(map[string]interface{})
	assert.Equal(t, "1 es teh", top["item"])
	assert.Equal(t, float64(2), top["count"])
}

func TestGetHourlyReport(t *testing.T) {
	setupReportTest(t)

	w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/hourly", nil)
	require.Equal(t, http.StatusOK, w.Code)

	hours := response["data"].([]interface{})
	require.Len(t, hours, 24)
	assert.Equal(t, float64(1), hours[9])
	assert.Equal(t, float64(1), hours[10])
	assert.Equal(t, float64(1), hours[11])
	assert.Equal(t, float64(1), hours[12])
	assert.Equal(t, float64(0), hours[13])
}

func TestReports_EmptyStore(t *testing.T) {
	setupOrderTestDB(t)

	w, response := performRequest(t, reportRouter(), http.MethodGet, "/reports/top-customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, response["data"])

	w, response = performRequest(t, reportRouter(), http.MethodGet, "/reports/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_orders"])
	assert.Equal(t, float64(0), data["average_order_value"])
}
