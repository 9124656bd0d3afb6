// Package chart renders projection and allocation figures as PNG images
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
	"github.com/simaogato/investtrack-backend/internal/usecase/portfolio"
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no data to chart")

// Palette for allocation slices, cycled when there are more asset classes than colors
var sliceColors = []drawing.Color{
	drawing.ColorFromHex("2563eb"),
	drawing.ColorFromHex("16a34a"),
	drawing.ColorFromHex("f59e0b"),
	drawing.ColorFromHex("dc2626"),
	drawing.ColorFromHex("7c3aed"),
	drawing.ColorFromHex("0891b2"),
	drawing.ColorFromHex("db2777"),
	drawing.ColorFromHex("65a30d"),
	drawing.ColorFromHex("9ca3af"),
}

// RenderGrowthChart renders a PNG line chart of a projection.
// Two series: nominal balance (blue solid) and inflation-adjusted balance (green dashed).
// Year 0 is the initial investment; the currency code drives the axis labels.
func RenderGrowthChart(initial decimal.Decimal, results []domain.YearlyResult, currency string) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrNoData
	}

	years := make([]float64, 0, len(results)+1)
	nominal := make([]float64, 0, len(results)+1)
	adjusted := make([]float64, 0, len(results)+1)

	start := money.Round(initial).InexactFloat64()
	years = append(years, 0)
	nominal = append(nominal, start)
	adjusted = append(adjusted, start)

	for _, r := range results {
		years = append(years, float64(r.Year))
		nominal = append(nominal, r.BalanceWithoutInflation.InexactFloat64())
		adjusted = append(adjusted, r.BalanceWithInflation.InexactFloat64())
	}

	nominalSeries := chart.ContinuousSeries{
		Name: "Nominal Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: years,
		YValues: nominal,
	}

	realSeries := chart.ContinuousSeries{
		Name: "Inflation Adjusted",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("16a34a"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: years,
		YValues: adjusted,
	}

	graph := chart.Chart{
		Title:  "Projected Growth",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return money.FormatCompact(decimal.NewFromFloat(f), currency)
				}
				return ""
			},
		},
		Series: []chart.Series{nominalSeries, realSeries},
	}

	// A flat projection has no y-range of its own
	if lo, hi := bounds(nominal, adjusted); lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderAllocationChart renders a PNG pie chart with one slice per asset class
func RenderAllocationChart(entries []portfolio.AllocationEntry) ([]byte, error) {
	values := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		if !e.Value.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", e.Type.DisplayName(), money.FormatPercent(e.Percentage)),
			Value: e.Value.InexactFloat64(),
			Style: chart.Style{
				FillColor: sliceColors[len(values)%len(sliceColors)],
			},
		})
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Asset Allocation",
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func bounds(series ...[]float64) (lo, hi float64) {
	first := true
	for _, s := range series {
		for _, v := range s {
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
	}
	return lo, hi
}
