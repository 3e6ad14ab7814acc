package models

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order. Any status may be set from any other.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses returns every status in dashboard display order
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusCompleted, StatusCancelled}
}

// IsValid reports whether s is one of the known statuses
func (s OrderStatus) IsValid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// IsOpen reports whether the order still needs attention from the kitchen
func (s OrderStatus) IsOpen() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusProcessing
}

// Order represents a food order received over WhatsApp or entered manually.
//
// Total is priced once at creation time and is never recomputed from Items.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerName    string      `gorm:"column:customer_name" json:"customer_name"`
	CustomerWA      string      `gorm:"column:customer_wa;not null;index" json:"customer_wa"` // WhatsApp handle, identifies the customer
	CustomerAddress string      `gorm:"column:customer_address" json:"customer_address"`
	Items           string      `gorm:"column:items;type:text" json:"items"` // e.g. "2 Nasi Goreng, 1 Es Teh"
	Total           float64     `gorm:"column:total;not null;default:0" json:"total"`
	Status          OrderStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time   `gorm:"column:created_at;index" json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Validate checks an order draft before it is persisted
func (o *Order) Validate() error {
	if o.CustomerWA == "" {
		return &ValidationError{Field: "customer_wa", Message: "customer WhatsApp number is required"}
	}
	if o.Total < 0 {
		return &ValidationError{Field: "total", Message: fmt.Sprintf("total must not be negative, got %.2f", o.Total)}
	}
	if o.Status != "" && !o.Status.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", o.Status)}
	}
	return nil
}

// ValidationError represents malformed order or seed input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// SampleOrders returns the demo data set used to bootstrap an empty dashboard
func SampleOrders() []Order {
	at := func(value string) time.Time {
		t, _ := time.ParseInLocation(time.DateTime, value, time.Local)
		return t
	}

	return []Order{
		{CustomerName: "Budi Santoso", CustomerWA: "+628123456789", CustomerAddress: "Jl. Merdeka No. 123", Items: "2 Nasi Goreng, 1 Es Teh", Total: 55000, Status: StatusCompleted, CreatedAt: at("2024-01-15 10:30:00")},
		{CustomerName: "Siti Rahayu", CustomerWA: "+628987654321", CustomerAddress: "Jl. Sudirman No. 45", Items: "1 Ayam Bakar, 2 Es Jeruk", Total: 47000, Status: StatusProcessing, CreatedAt: at("2024-01-15 11:15:00")},
		{CustomerName: "Ahmad Wijaya", CustomerWA: "+628112233445", CustomerAddress: "Jl. Gatot Subroto No. 67", Items: "3 Mie Goreng, 1 Es Teh", Total: 65000, Status: StatusConfirmed, CreatedAt: at("2024-01-15 12:00:00")},
		{CustomerName: "Dewi Lestari", CustomerWA: "+628556677889", CustomerAddress: "Jl. Thamrin No. 89", Items: "1 Nasi Goreng, 1 Ayam Bakar", Total: 60000, Status: StatusPending, CreatedAt: at("2024-01-15 09:45:00")},
	}
}
