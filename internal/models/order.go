package models

import "time"

// RawOrder is one line item exactly as the source returns it.
// QuantityOrdered stays textual because the cleaned table still carries malformed values.
type RawOrder struct {
	OrderID         string
	Product         string
	QuantityOrdered *string
	PriceEach       *float64
	OrderDate       time.Time
	OrderYear       int
	OrderMonth      int
	OrderMonthName  string
	City            string
	Country         string
}

// Order is a RawOrder after numeric coercion. Nil Quantity or Sales means missing.
type Order struct {
	OrderID        string    `json:"order_id"`
	Product        string    `json:"product"`
	Quantity       *float64  `json:"quantity_ordered"`
	PriceEach      *float64  `json:"price_each"`
	OrderDate      time.Time `json:"order_date"`
	OrderYear      int       `json:"order_year"`
	OrderMonth     int       `json:"order_month"`
	OrderMonthName string    `json:"order_month_name"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	Sales          *float64  `json:"sales"`
}

// Filters selects the working subset. A nil slice leaves that dimension unfiltered,
// a non-nil empty slice selects nothing.
type Filters struct {
	Months []int    `json:"months"`
	Cities []string `json:"cities"`
}

type FilterOptions struct {
	Years  []int    `json:"years"`
	Months []int    `json:"months"`
	Cities []string `json:"cities"`
}
