package reports

import (
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/models"
)

// Summary is the dashboard overview computed on every request
type Summary struct {
	GeneratedAt         time.Time                  `json:"generated_at"`
	TotalOrders         int                        `json:"total_orders"`
	TodayOrders         int                        `json:"today_orders"`
	WeeklyOrders        int                        `json:"weekly_orders"`
	MonthlyOrders       int                        `json:"monthly_orders"`
	OpenOrders          int                        `json:"open_orders"`
	MonthlyRevenue      float64                    `json:"monthly_revenue"`
	AverageOrderValue   float64                    `json:"average_order_value"`
	WeeklyDailyCounts   []DailyValue               `json:"weekly_daily_counts"`
	MonthlyDailyRevenue []DailyValue               `json:"monthly_daily_revenue"`
	StatusCounts        map[models.OrderStatus]int `json:"status_counts"`
	TopCustomers        []CustomerSummary          `json:"top_customers"`
	TopItems            []ItemCount                `json:"top_items"`
	HourlyOrders        [24]int                    `json:"hourly_orders"`
}

// BuildSummary assembles every dashboard figure from the full order list.
// Revenue and average order value cover the trailing month.
func BuildSummary(orders []models.Order, now time.Time, topN int) Summary {
	loc := now.Location()
	weekly := Weekly(orders, now)
	monthly := Monthly(orders, now)

	return Summary{
		GeneratedAt:         now,
		TotalOrders:         len(orders),
		TodayOrders:         len(Today(orders, now)),
		WeeklyOrders:        len(weekly),
		MonthlyOrders:       len(monthly),
		OpenOrders:          len(Open(orders)),
		MonthlyRevenue:      Revenue(monthly),
		AverageOrderValue:   AverageOrderValue(monthly),
		WeeklyDailyCounts:   DailyCounts(weekly, loc),
		MonthlyDailyRevenue: DailyRevenue(monthly, loc),
		StatusCounts:        StatusHistogram(orders),
		TopCustomers:        TopCustomers(orders, topN),
		TopItems:            TopItems(orders, topN),
		HourlyOrders:        HourHistogram(orders, loc),
	}
}
