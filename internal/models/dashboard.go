package models

import "time"

type KeyValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type CountryShare struct {
	Country    string  `json:"country"`
	Sales      float64 `json:"sales"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
	Angle      float64 `json:"angle"`
	MidAngle   float64 `json:"mid_angle"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type MonthlySales struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	MonthName string  `json:"month_name"`
	Sales     float64 `json:"sales"`
	Label     string  `json:"label"`
}

type KPIs struct {
	Orders         int     `json:"orders"`
	Revenue        float64 `json:"revenue"`
	Cities         int     `json:"cities"`
	Rows           int     `json:"rows"`
	OrdersDisplay  string  `json:"orders_display"`
	RevenueDisplay string  `json:"revenue_display"`
}

// Dashboard is everything the presentation layer needs for one render pass.
type Dashboard struct {
	Filters        Filters        `json:"filters"`
	Options        FilterOptions  `json:"options"`
	KPIs           KPIs           `json:"kpis"`
	TopProducts    []KeyValue     `json:"top_products"`
	ProductRevenue []KeyValue     `json:"product_revenue"`
	TopCities      []KeyValue     `json:"top_cities"`
	CountryShares  []CountryShare `json:"country_shares"`
	MonthlyTrend   []MonthlySales `json:"monthly_trend"`
	Preview        []Order        `json:"preview"`
	LoadedAt       time.Time      `json:"loaded_at"`
	RenderedAt     time.Time      `json:"rendered_at"`
}

type LoadStats struct {
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
	Products    int       `json:"products"`
	Cities      int       `json:"cities"`
	Countries   int       `json:"countries"`
	Months      int       `json:"months"`
}
