// Package export writes a filtered order subset as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	SheetName  = "Orders"
	dateLayout = "2006-01-02 15:04:05"
)

// Header follows the source table's column names, plus the derived Sales column.
var Header = []string{
	"Order ID", "Product", "Quantity Ordered", "Price Each", "Order Date",
	"Order Year", "Order Month", "Order Month Name", "City", "Country", "Sales",
}

// Filename builds a timestamped download name such as orders-20190419-084600.csv.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("orders-%s.%s", now.UTC().Format("20060102-150405"), ext)
}

func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, o := range orders {
		if err := cw.Write(csvRow(o)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(o models.Order) []string {
	return []string{
		o.OrderID,
		o.Product,
		formatOptional(o.Quantity),
		formatOptional(o.PriceEach),
		o.OrderDate.Format(dateLayout),
		strconv.Itoa(o.OrderYear),
		strconv.Itoa(o.OrderMonth),
		o.OrderMonthName,
		o.City,
		o.Country,
		formatOptional(o.Sales),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteXLSX streams the orders into a single-sheet workbook. Missing numbers
// are left as blank cells.
func WriteXLSX(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FCF300"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, len(Header), 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(o)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(o models.Order) []interface{} {
	return []interface{}{
		o.OrderID,
		o.Product,
		optionalCell(o.Quantity),
		optionalCell(o.PriceEach),
		o.OrderDate.Format(dateLayout),
		o.OrderYear,
		o.OrderMonth,
		o.OrderMonthName,
		o.City,
		o.Country,
		optionalCell(o.Sales),
	}
}

func optionalCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
