package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/config"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/reports"
)

// DefaultReportLimit is the number of rows returned by ranked reports
const DefaultReportLimit = 5

// reportNow is the reference time for every report, in the configured timezone
var reportNow = func() time.Time {
	if cfg := config.GetConfig(); cfg != nil {
		return time.Now().In(cfg.Location())
	}
	return time.Now()
}

// loadReportOrders fetches every order, writing an error response on failure
func loadReportOrders(c *gin.Context) ([]models.Order, bool) {
	orders, err := orderStore().ListAll()
	if err != nil {
		respondOrderError(c, err, "Failed to retrieve orders")
		return nil, false
	}
	return orders, true
}

// parseLimit reads ?limit, returning fallback when it is absent
func parseLimit(c *gin.Context, fallback int) (int, bool) {
	value := c.Query("limit")
	if value == "" {
		return fallback, true
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_LIMIT",
				"message": "Limit must be a positive integer",
			},
		})
		return 0, false
	}
	return limit, true
}

// GetSummary handles GET /api/v1/reports/summary - the dashboard overview
func GetSummary(c *gin.Context) {
	limit, ok := parseLimit(c, DefaultReportLimit)
	if !ok {
		return
	}
	orders, ok := loadReportOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.BuildSummary(orders, reportNow(), limit),
	})
}

// GetStatusReport handles GET /api/v1/reports/status - order count per status
func GetStatusReport(c *gin.Context) {
	orders, ok := loadReportOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.StatusHistogram(orders),
	})
}

// GetTopCustomers handles GET /api/v1/reports/top-customers
func GetTopCustomers(c *gin.Context) {
	limit, ok := parseLimit(c, DefaultReportLimit)
	if !ok {
		return
	}
	orders, ok := loadReportOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.TopCustomers(orders, limit),
	})
}

// GetTopItems handles GET /api/v1/reports/top-items
func GetTopItems(c *gin.Context) {
	limit, ok := parseLimit(c, DefaultReportLimit)
	if !ok {
		return
	}
	orders, ok := loadReportOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.TopItems(orders, limit),
	})
}

// GetHourlyReport handles GET /api/v1/reports/hourly - orders per hour of day
func GetHourlyReport(c *gin.Context) {
	orders, ok := loadReportOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.HourHistogram(orders, reportNow().Location()),
	})
}
