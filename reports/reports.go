// Package reports derives dashboard aggregates from the full order list.
//
// Every function is pure: it takes the orders as returned by the store (newest
// first) plus a reference time, and never fails on an empty input.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/shopspring/decimal"
)

const (
	WeeklyDays  = 7
	MonthlyDays = 30
)

// CustomerSummary is the spend of one customer, keyed by WhatsApp handle
type CustomerSummary struct {
	Handle     string  `json:"customer_wa"`
	Name       string  `json:"customer_name"`
	OrderCount int     `json:"order_count"`
	TotalSpend float64 `json:"total_spend"`
}

// ItemCount is how often a raw item fragment appears across orders
type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// DailyValue is a per-calendar-day figure, keyed "2006-01-02"
type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Window keeps the orders created in the trailing window ending at now.
// A window of one day or less means "today": the same calendar date as now,
// not the last 24 hours.
func Window(orders []models.Order, now time.Time, days int) []models.Order {
	result := []models.Order{}
	if days <= 1 {
		y, m, d := now.Date()
		for _, o := range orders {
			oy, om, od := o.CreatedAt.In(now.Location()).Date()
			if oy == y && om == m && od == d {
				result = append(result, o)
			}
		}
		return result
	}

	from := now.AddDate(0, 0, -days)
	for _, o := range orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(now) {
			result = append(result, o)
		}
	}
	return result
}

// Today returns orders created on now's calendar date
func Today(orders []models.Order, now time.Time) []models.Order {
	return Window(orders, now, 1)
}

// Weekly returns orders from the trailing seven days
func Weekly(orders []models.Order, now time.Time) []models.Order {
	return Window(orders, now, WeeklyDays)
}

// Monthly returns orders from the trailing thirty days
func Monthly(orders []models.Order, now time.Time) []models.Order {
	return Window(orders, now, MonthlyDays)
}

// FilterByStatus keeps orders with exactly the given status
func FilterByStatus(orders []models.Order, status models.OrderStatus) []models.Order {
	result := []models.Order{}
	for _, o := range orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	return result
}

// Open returns orders that are pending, confirmed or processing
func Open(orders []models.Order) []models.Order {
	result := []models.Order{}
	for _, o := range orders {
		if o.Status.IsOpen() {
			result = append(result, o)
		}
	}
	return result
}

// StatusHistogram counts orders per status. Statuses with no orders are absent.
func StatusHistogram(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// TopCustomers groups orders by WhatsApp handle and ranks by total spend.
// Ties keep first-seen order. n <= 0 returns every customer.
func TopCustomers(orders []models.Order, n int) []CustomerSummary {
	index := make(map[string]int)
	customers := []CustomerSummary{}
	spend := []decimal.Decimal{}

	for _, o := range orders {
		i, ok := index[o.CustomerWA]
		if !ok {
			index[o.CustomerWA] = len(customers)
			customers = append(customers, CustomerSummary{Handle: o.CustomerWA, Name: o.CustomerName})
			spend = append(spend, decimal.Zero)
			i = len(customers) - 1
		}
		customers[i].OrderCount++
		spend[i] = spend[i].Add(decimal.NewFromFloat(o.Total))
	}
	for i := range customers {
		customers[i].TotalSpend = spend[i].InexactFloat64()
	}

	sort.SliceStable(customers, func(a, b int) bool {
		return customers[a].TotalSpend > customers[b].TotalSpend
	})
	return limit(customers, n)
}

// TopItems counts the comma-separated fragments of each order's items field.
// Fragments are trimmed and lower-cased but otherwise kept verbatim, so
// "2 nasi goreng" and "nasi goreng" are counted separately, and the empty
// fragment left by a trailing comma or blank items field is counted as "".
func TopItems(orders []models.Order, n int) []ItemCount {
	index := make(map[string]int)
	items := []ItemCount{}

	for _, o := range orders {
		for _, fragment := range strings.Split(o.Items, ",") {
			key := strings.ToLower(strings.TrimSpace(fragment))
			i, ok := index[key]
			if !ok {
				index[key] = len(items)
				items = append(items, ItemCount{Item: key})
				i = len(items) - 1
			}
			items[i].Count++
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Count > items[b].Count
	})
	return limit(items, n)
}

// Revenue sums the totals of completed orders only
func Revenue(orders []models.Order) float64 {
	return revenue(orders).InexactFloat64()
}

// AverageOrderValue is revenue divided by the number of completed orders,
// rounded to two decimal places
func AverageOrderValue(orders []models.Order) float64 {
	completed := len(FilterByStatus(orders, models.StatusCompleted))
	if completed == 0 {
		return 0
	}
	return revenue(orders).DivRound(decimal.NewFromInt(int64(completed)), 2).InexactFloat64()
}

func revenue(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == models.StatusCompleted {
			total = total.Add(decimal.NewFromFloat(o.Total))
		}
	}
	return total
}

// HourHistogram counts orders per hour of day in loc (time.Local when nil)
func HourHistogram(orders []models.Order, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.Local
	}

	var hours [24]int
	for _, o := range orders {
		hours[o.CreatedAt.In(loc).Hour()]++
	}
	return hours
}

// DailyCounts counts orders per calendar day in loc, oldest day first
func DailyCounts(orders []models.Order, loc *time.Location) []DailyValue {
	return daily(orders, loc, func(models.Order) (float64, bool) { return 1, true })
}

// DailyRevenue sums completed order totals per calendar day in loc, oldest day first
func DailyRevenue(orders []models.Order, loc *time.Location) []DailyValue {
	return daily(orders, loc, func(o models.Order) (float64, bool) {
		return o.Total, o.Status == models.StatusCompleted
	})
}

func daily(orders []models.Order, loc *time.Location, value func(models.Order) (float64, bool)) []DailyValue {
	if loc == nil {
		loc = time.Local
	}

	sums := make(map[string]decimal.Decimal)
	for _, o := range orders {
		v, ok := value(o)
		if !ok {
			continue
		}
		key := o.CreatedAt.In(loc).Format(time.DateOnly)
		sums[key] = sums[key].Add(decimal.NewFromFloat(v))
	}

	days := make([]DailyValue, 0, len(sums))
	for date, v := range sums {
		days = append(days, DailyValue{Date: date, Value: v.InexactFloat64()})
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Date < days[b].Date })
	return days
}

func limit[T any](values []T, n int) []T {
	if n > 0 && len(values) > n {
		return values[:n]
	}
	return values
}
