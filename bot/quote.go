package bot

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// LineItem is one recognized menu item in an order message
type LineItem struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// Quote is the priced result of extracting items from an order message
type Quote struct {
	Items []LineItem `json:"items"`
	Total int64      `json:"total"`

	// Rejected names the items mentioned with a quantity too large to price
	Rejected []string `json:"rejected,omitempty"`
}

// Empty reports whether no menu item was recognized
func (q Quote) Empty() bool {
	return len(q.Items) == 0
}

// Description renders the items in the comma-separated form stored on orders,
// e.g. "2 nasi goreng, 1 es teh"
func (q Quote) Description() string {
	parts := make([]string, 0, len(q.Items))
	for _, item := range q.Items {
		parts = append(parts, fmt.Sprintf("%d %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// Format renders the confirmation reply sent back to the customer
func (q Quote) Format() string {
	var b strings.Builder
	b.WriteString("Terima kasih atas pesanan Anda:\n")
	for _, item := range q.Items {
		fmt.Fprintf(&b, "- %d %s @ %s = %s\n", item.Quantity, item.Name, FormatRupiah(item.UnitPrice), FormatRupiah(item.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatRupiah(q.Total))
	b.WriteString("Silakan konfirmasi dengan mengetik 'ya' untuk memesan atau 'tidak' untuk membatalkan.")
	return b.String()
}

// FormatRupiah formats an amount as "Rp 25,000"
func FormatRupiah(amount int64) string {
	return "Rp " + humanize.Comma(amount)
}
