package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"QuoteReport/internal/model"
)

const (
	chartWidth      = "1000px"
	chartHeight     = "680px"
	colorBackground = "#ffffff"
	colorText       = "#1f2933"
	colorMuted      = "#52606d"
	colorClose      = "#1f77b4"
	colorMM20       = "#ff7f0e"
	colorMM50       = "#2ca02c"
)

var noSymbol = charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})

// printCSS puts every chart on its own landscape letter page.
const printCSS = `<style>
@page { size: 11in 8.5in; margin: 0.25in; }
body { margin: 0; background: #ffffff; }
.container { page-break-after: always; break-after: page; }
.container:last-of-type { page-break-after: auto; break-after: auto; }
</style>
`

// BuildHTML renders the whole report as a single go-echarts page: title,
// one price chart per symbol, the return comparison and the summary.
func BuildHTML(set *model.SeriesSet, meta Meta) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = meta.Title
	if meta.AssetsHost != "" {
		page.AssetsHost = meta.AssetsHost
	}
	page.SetLayout(components.PageCenterLayout)

	page.AddCharts(titleChart(meta))
	for _, s := range set.All() {
		page.AddCharts(priceChart(s))
	}
	if cmp := AlignReturns(set); len(cmp.Dates) > 0 {
		page.AddCharts(comparisonChart(cmp))
	}
	lines := SummaryLines(set)
	if len(lines) == 0 {
		lines = []string{noData}
	}
	page.AddCharts(textChart("Summary", strings.Join(lines, "\n"), "8%", "12%"))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render report page: %w", err)
	}
	return injectPrintCSS(buf.Bytes()), nil
}

func injectPrintCSS(html []byte) []byte {
	idx := bytes.Index(html, []byte("</head>"))
	if idx < 0 {
		return append([]byte(printCSS), html...)
	}
	out := make([]byte, 0, len(html)+len(printCSS))
	out = append(out, html[:idx]...)
	out = append(out, printCSS...)
	return append(out, html[idx:]...)
}

func initOpts() opts.Initialization {
	return opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: colorBackground,
	}
}

func titleChart(meta Meta) *charts.Line {
	subtitle := fmt.Sprintf("Generated at: %s\nRun: %s", meta.GeneratedAt.Format("2006-01-02 15:04"), meta.RunID)
	return textChart(meta.Title, subtitle, "center", "38%")
}

// textChart is an empty chart used as a text-only page.
func textChart(title, subtitle, left, top string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:         title,
			Subtitle:      subtitle,
			Left:          left,
			Top:           top,
			TitleStyle:    &opts.TextStyle{Color: colorText, FontSize: 26},
			SubtitleStyle: &opts.TextStyle{Color: colorMuted, FontSize: 14},
		}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	return line
}

func priceChart(s *model.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s - Close and moving averages", s.Symbol),
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorText, FontSize: 18},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px", TextStyle: &opts.TextStyle{Color: colorMuted}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			AxisLabel: &opts.AxisLabel{Color: colorMuted},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Price",
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorMuted, Opacity: opts.Float(0.15)}},
		}),
	)
	dates := make([]time.Time, s.Len())
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	line.SetXAxis(dateLabels(dates))
	line.AddSeries("close", toLineData(s.Closes()), noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorClose, Width: 2}))
	line.AddSeries("mm20", toLineData(s.MM20), noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorMM20, Width: 1.5}))
	line.AddSeries("mm50", toLineData(s.MM50), noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorMM50, Width: 1.5}))
	return line
}

func comparisonChart(cmp Comparison) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:      "Cumulative return compared",
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorText, FontSize: 18},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px", TextStyle: &opts.TextStyle{Color: colorMuted}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", AxisLabel: &opts.AxisLabel{Color: colorMuted}}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Cumulative return",
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorMuted, Opacity: opts.Float(0.15)}},
		}),
	)
	line.SetXAxis(dateLabels(cmp.Dates))
	for i, sym := range cmp.Symbols {
		line.AddSeries(sym, toLineData(cmp.Values[i]), noSymbol)
	}
	return line
}

// dateLabels uses plain dates unless some point carries a time of day.
func dateLabels(dates []time.Time) []string {
	layout := "2006-01-02"
	for _, d := range dates {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			layout = "2006-01-02 15:04"
			break
		}
	}
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(layout)
	}
	return out
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = opts.LineData{Value: nil}
			continue
		}
		data[i] = opts.LineData{Value: round(v, 4)}
	}
	return data
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
