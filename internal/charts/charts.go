// Package charts renders the dashboard aggregates as standalone SVG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

type Kind string

const (
	TopProducts    Kind = "top-products"
	ProductRevenue Kind = "product-revenue"
	TopCities      Kind = "top-cities"
	CountrySales   Kind = "country-sales"
	MonthlySales   Kind = "monthly-sales"
)

// Kinds lists every chart in page order.
var Kinds = []Kind{TopProducts, ProductRevenue, TopCities, CountrySales, MonthlySales}

func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

func (k Kind) Title() string {
	switch k {
	case TopProducts:
		return "Top 10 Products Sold"
	case ProductRevenue:
		return "Revenue by Product"
	case TopCities:
		return "Top 10 Cities by Sales"
	case CountrySales:
		return "Sales Distribution by Country"
	case MonthlySales:
		return "Monthly Sales Trend"
	default:
		return string(k)
	}
}

var (
	ColorPrimary   = drawing.ColorFromHex("FCF300")
	ColorSecondary = drawing.ColorFromHex("FFC600")
	ColorAccent    = drawing.ColorFromHex("072AC8")
	ColorHighlight = drawing.ColorFromHex("1E96FC")

	// category10 slice colours for the country pie.
	category10 = []drawing.Color{
		drawing.ColorFromHex("1F77B4"),
		drawing.ColorFromHex("FF7F0E"),
		drawing.ColorFromHex("2CA02C"),
		drawing.ColorFromHex("D62728"),
		drawing.ColorFromHex("9467BD"),
		drawing.ColorFromHex("8C564B"),
		drawing.ColorFromHex("E377C2"),
		drawing.ColorFromHex("7F7F7F"),
		drawing.ColorFromHex("BCBD22"),
		drawing.ColorFromHex("17BECF"),
	}
)

const NoDataMessage = "No data for the current selection"

type Renderer struct {
	Width  int
	Height int
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{Width: 640, Height: 400, logger: logger}
}

// Render draws one chart of d into w. Empty or all-zero data, and any chart
// the library refuses to lay out, produce a "No data" placeholder instead.
func (r *Renderer) Render(w io.Writer, kind Kind, d *models.Dashboard) error {
	var buf bytes.Buffer
	var err error

	switch kind {
	case TopProducts:
		err = r.bars(&buf, kind.Title(), d.TopProducts, ColorPrimary, humanize.Commaf)
	case ProductRevenue:
		err = r.bars(&buf, kind.Title(), d.ProductRevenue, ColorSecondary, services.FormatWholeCurrency)
	case TopCities:
		err = r.bars(&buf, kind.Title(), d.TopCities, ColorHighlight, services.FormatWholeCurrency)
	case CountrySales:
		err = r.pie(&buf, kind.Title(), d.CountryShares)
	case MonthlySales:
		err = r.trend(&buf, kind.Title(), d.MonthlyTrend)
	default:
		return fmt.Errorf("unknown chart %q", kind)
	}

	if err != nil {
		if !errors.Is(err, errNoData) {
			r.logger.Warn("chart render failed, serving placeholder", "chart", kind, "error", err)
		}
		buf.Reset()
		if err := r.placeholder(&buf, kind.Title()); err != nil {
			return fmt.Errorf("render placeholder: %w", err)
		}
	}

	_, err = buf.WriteTo(w)
	return err
}

var errNoData = errors.New("no data")

func (r *Renderer) bars(w io.Writer, title string, values []models.KeyValue, color drawing.Color, format func(float64) string) error {
	if !hasPositive(values) {
		return errNoData
	}

	bars := make([]chart.Value, 0, len(values))
	var top float64
	for _, v := range values {
		top = math.Max(top, v.Value)
		bars = append(bars, chart.Value{
			Label: v.Key,
			Value: v.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color.WithAlpha(200), StrokeWidth: 1},
		})
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   max(12, (r.Width-120)/len(bars)-12),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 110}},
		XAxis:      chart.Style{TextRotationDegrees: 45, FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(top)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format(f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

func (r *Renderer) pie(w io.Writer, title string, shares []models.CountryShare) error {
	values := make([]chart.Value, 0, len(shares))
	for i, s := range shares {
		if s.Sales <= 0 {
			continue
		}
		color := category10[i%len(category10)]
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Sales,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, FontSize: 9},
		})
	}
	if len(values) == 0 {
		return errNoData
	}

	pc := chart.PieChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Values:     values,
	}
	return pc.Render(chart.SVG, w)
}

func (r *Renderer) trend(w io.Writer, title string, months []models.MonthlySales) error {
	if len(months) == 0 {
		return errNoData
	}

	xs := make([]float64, 0, len(months))
	ys := make([]float64, 0, len(months))
	ticks := make([]chart.Tick, 0, len(months))
	var top float64
	for i, m := range months {
		xs = append(xs, float64(i))
		ys = append(ys, m.Sales)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: m.Label})
		top = math.Max(top, m.Sales)
	}
	if top <= 0 {
		return errNoData
	}
	// A single month still needs two points for the series to have an extent.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+0.0001)
		ys = append(ys, ys[0])
	}

	style := chart.Style{
		StrokeColor: ColorAccent,
		StrokeWidth: 2,
		DotColor:    ColorAccent,
		DotWidth:    4,
	}
	c := chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 90}},
		XAxis: chart.XAxis{
			Name:  "Month",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(months)) - 0.5},
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: 45, FontSize: 8},
		},
		YAxis: chart.YAxis{
			Name:  "Total Sales",
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(top)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return services.FormatWholeCurrency(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Sales", XValues: xs, YValues: ys, Style: style},
		},
	}
	return c.Render(chart.SVG, w)
}

func (r *Renderer) placeholder(w io.Writer, title string) error {
	rr, err := chart.SVG(r.Width, r.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	rr.SetFont(font)

	rr.SetFontColor(chart.ColorBlack)
	rr.SetFontSize(14)
	tb := rr.MeasureText(title)
	rr.Text(title, (r.Width-tb.Width())/2, 28)

	rr.SetFontColor(chart.ColorAlternateGray)
	rr.SetFontSize(12)
	mb := rr.MeasureText(NoDataMessage)
	rr.Text(NoDataMessage, (r.Width-mb.Width())/2, r.Height/2)

	return rr.Save(w)
}

func hasPositive(values []models.KeyValue) bool {
	for _, v := range values {
		if v.Value > 0 {
			return true
		}
	}
	return false
}

// niceMax rounds v up to 1, 2 or 5 times a power of ten.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 5, 10} {
		if v <= step*exp {
			return step * exp
		}
	}
	return 10 * exp
}
