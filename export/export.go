// Package export writes the order table as flat files for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/xuri/excelize/v2"
)

// Format is a supported export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the default worksheet of a new workbook, which holds the orders
const SheetName = "Sheet1"

// Columns is the header row shared by every export format
var Columns = []string{"id", "customer_name", "customer_wa", "customer_address", "items", "total", "status", "created_at"}

// ParseFormat accepts "csv" or "xlsx" (case-insensitive); empty means csv
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a timestamped export file name, e.g. orders_20240115_103000.csv
func (f Format) FileName(at time.Time) string {
	return "orders_" + at.Format("20060102_150405") + f.Extension()
}

// Write renders orders in the given format
func Write(w io.Writer, format Format, orders []models.Order) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, orders)
	default:
		return WriteCSV(w, orders)
	}
}

// WriteCSV writes a header row and one record per order
func WriteCSV(w io.Writer, orders []models.Order) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, order := range orders {
		if err := writer.Write(record(order)); err != nil {
			return fmt.Errorf("failed to write order %d: %w", order.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook
func WriteXLSX(w io.Writer, orders []models.Order) (err error) {
	file := excelize.NewFile()
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, order := range orders {
		row := []interface{}{
			order.ID,
			order.CustomerName,
			order.CustomerWA,
			order.CustomerAddress,
			order.Items,
			order.Total,
			string(order.Status),
			order.CreatedAt.Format(time.DateTime),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write order %d: %w", order.ID, err)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func record(order models.Order) []string {
	return []string{
		strconv.FormatUint(uint64(order.ID), 10),
		order.CustomerName,
		order.CustomerWA,
		order.CustomerAddress,
		order.Items,
		strconv.FormatFloat(order.Total, 'f', -1, 64),
		string(order.Status),
		order.CreatedAt.Format(time.DateTime),
	}
}
