package services

import "github.com/dustin/go-humanize"

// FormatCount renders an integer with thousands separators, e.g. "12,345".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatCurrency renders dollars with two decimals, e.g. "$1,234.50".
func FormatCurrency(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatWholeCurrency renders rounded dollars, e.g. "$1,235".
func FormatWholeCurrency(v float64) string {
	return "$" + humanize.FormatFloat("#,###.", v)
}
