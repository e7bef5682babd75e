// Package preview renders chart payloads to a single HTML page for visual
// checks of an analytics run.
package preview

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// Render writes one HTML page holding every drawable chart of a among keys,
// or every available chart when keys is empty. It returns the number of
// charts drawn.
func Render(w io.Writer, a *analysis.Analytics, keys []string) (int, error) {
	if len(keys) == 0 {
		for _, d := range analysis.Registry {
			keys = append(keys, d.Key)
		}
	}
	page := components.NewPage()
	page.PageTitle = "radar preview"
	n := 0
	for _, k := range keys {
		e, ok := a.ChartsData[k]
		if !ok || !e.Available || e.Payload == nil {
			continue
		}
		c := chartFor(e)
		if c == nil {
			continue
		}
		page.AddCharts(c)
		n++
	}
	if err := page.Render(w); err != nil {
		return n, fmt.Errorf("render preview: %w", err)
	}
	return n, nil
}

func globals(e *analysis.ChartEntry) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: e.Title, Subtitle: e.Insight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func axisName(ax analysis.Axis) string {
	if ax.Unit == "" {
		return ax.Label
	}
	return ax.Label + " (" + ax.Unit + ")"
}

// chartFor maps a payload to an echarts chart; models have no drawing.
func chartFor(e *analysis.ChartEntry) components.Charter {
	switch p := e.Payload.(type) {
	case *analysis.ScatterPayload:
		data := make([]opts.ScatterData, 0, len(p.Points))
		for _, pt := range p.Points {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}, Name: "coup " + strconv.Itoa(pt.Shot)})
		}
		c := charts.NewScatter()
		c.SetGlobalOptions(append(globals(e),
			charts.WithXAxisOpts(opts.XAxis{Name: axisName(p.X), NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Name: axisName(p.Y), NameLocation: "middle", NameGap: 40}),
		)...)
		c.AddSeries(e.Key, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
		return c
	case *analysis.LinePayload:
		x := make([]string, len(p.Series))
		y := make([]opts.LineData, len(p.Series))
		for i, s := range p.Series {
			x[i] = strconv.Itoa(s.Shot)
			y[i] = opts.LineData{Value: s.Value}
		}
		c := charts.NewLine()
		c.SetGlobalOptions(append(globals(e),
			charts.WithYAxisOpts(opts.YAxis{Name: axisName(p.Y)}),
		)...)
		c.SetXAxis(x).AddSeries(e.Key, y)
		return c
	case *analysis.HistPayload:
		x := make([]string, len(p.Bins))
		y := make([]opts.BarData, len(p.Bins))
		for i, b := range p.Bins {
			x[i] = b.Label
			y[i] = opts.BarData{Value: b.Count}
		}
		c := charts.NewBar()
		c.SetGlobalOptions(append(globals(e),
			charts.WithXAxisOpts(opts.XAxis{Name: axisName(p.X)}),
		)...)
		c.SetXAxis(x).AddSeries(e.Key, y)
		return c
	case *analysis.TablePayload:
		col := medianColumn(p.Columns)
		if col < 0 {
			return nil
		}
		x := make([]string, 0, len(p.Rows))
		y := make([]opts.BarData, 0, len(p.Rows))
		for _, r := range p.Rows {
			if r.Cells[col] == nil {
				continue
			}
			x = append(x, r.Key)
			y = append(y, opts.BarData{Value: *r.Cells[col]})
		}
		c := charts.NewBar()
		c.SetGlobalOptions(append(globals(e),
			charts.WithYAxisOpts(opts.YAxis{Name: axisName(p.Metric) + " " + p.Columns[col]}),
		)...)
		c.SetXAxis(x).AddSeries(e.Key, y, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
		return c
	case *analysis.MatrixPayload:
		names := make([]string, len(p.Variables))
		for i, v := range p.Variables {
			names[i] = string(v)
		}
		data := make([]opts.HeatMapData, 0, len(names)*len(names))
		for i := range p.Matrix {
			for j := range p.Matrix[i] {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, p.Matrix[i][j]}})
			}
		}
		c := charts.NewHeatMap()
		c.SetGlobalOptions(append(globals(e),
			charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names}),
			charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: names}),
			charts.WithVisualMapOpts(opts.VisualMap{
				Calculable: opts.Bool(true),
				Min:        -1,
				Max:        1,
				InRange:    &opts.VisualMapInRange{Color: []string{"#3b4cc0", "#f7f7f7", "#b40426"}},
			}),
		)...)
		c.SetXAxis(names).AddSeries(e.Key, data)
		return c
	default:
		return nil
	}
}

func medianColumn(cols []string) int {
	for i, c := range cols {
		if c == "median" {
			return i
		}
	}
	return -1
}
