package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func sampleOrders() []models.Order {
	at := time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC)
	return []models.Order{
		{OrderID: "176558", Product: "USB-C Charging Cable", Quantity: floatPtr(2), PriceEach: floatPtr(11.95), Sales: floatPtr(23.9),
			OrderDate: at, OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April", City: "Dallas", Country: "USA"},
		{OrderID: "176560", Product: "Wired Headphones, Black", PriceEach: floatPtr(11.99),
			OrderDate: at, OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April", City: "Boston", Country: "USA"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleOrders()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"176558", "USB-C Charging Cable", "2", "11.95", "2019-04-19 08:46:00",
		"2019", "4", "April", "Dallas", "USA", "23.9"}, records[1])
	assert.Equal(t, "Wired Headphones, Black", records[2][1])
	assert.Equal(t, "", records[2][2], "missing quantity is blank")
	assert.Equal(t, "", records[2][10], "missing sales is blank")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, records)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleOrders()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "176558", rows[1][0])
	assert.Equal(t, "Dallas", rows[1][8])

	sales, err := f.GetCellValue(SheetName, "K2")
	require.NoError(t, err)
	assert.Equal(t, "23.9", sales)

	missing, err := f.GetCellValue(SheetName, "C3")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFilename(t *testing.T) {
	at := time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC)
	assert.Equal(t, "orders-20190419-084600.xlsx", Filename("xlsx", at))
}
