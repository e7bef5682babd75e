package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// minInsightPoints is the smallest scatter worth commenting on.
const minInsightPoints = 6

// Insight returns a one-line French comment on a payload, or "" when there is
// not enough data.
func Insight(p Payload) string {
	switch v := p.(type) {
	case *ScatterPayload:
		return scatterInsight(v)
	case *LinePayload:
		return lineInsight(v)
	case *HistPayload:
		return histInsight(v)
	case *TablePayload:
		return tableInsight(v)
	case *MatrixPayload:
		return matrixInsight(v)
	case *ModelPayload:
		return modelInsight(v)
	default:
		return ""
	}
}

// PayloadScore rates how much a chart has to say, in [0, 1].
func PayloadScore(p Payload) float64 {
	switch v := p.(type) {
	case *ScatterPayload:
		r := scatterR(v)
		density := math.Min(1, float64(len(v.Points))/20)
		return clamp01(0.7*math.Abs(r) + 0.3*density)
	case *LinePayload:
		return lineVariability(v)
	case *HistPayload:
		_, share := topBin(v)
		return clamp01(1 - share)
	case *TablePayload:
		return 0.35
	case *MatrixPayload:
		best := 0.0
		for i := range v.Matrix {
			for j := range v.Matrix[i] {
				if i != j {
					best = math.Max(best, math.Abs(v.Matrix[i][j]))
				}
			}
		}
		return clamp01(best)
	case *ModelPayload:
		if v.Model == nil {
			return 0
		}
		return clamp01(v.Model.R2)
	default:
		return 0
	}
}

// Strength buckets a correlation magnitude.
func Strength(r float64) string {
	a := math.Abs(r)
	switch {
	case a < 0.2:
		return "faible"
	case a < 0.5:
		return "modérée"
	case a < 0.7:
		return "marquée"
	default:
		return "forte"
	}
}

func sign(r float64) string {
	if r < 0 {
		return "négative"
	}
	return "positive"
}

func scatterR(p *ScatterPayload) float64 {
	if len(p.Points) < 2 {
		return 0
	}
	xs := make([]float64, len(p.Points))
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func scatterInsight(p *ScatterPayload) string {
	if len(p.Points) < minInsightPoints {
		return ""
	}
	xs := make([]float64, len(p.Points))
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	r := scatterR(p)
	xm, xsd := meanStd(xs)
	ym, ysd := meanStd(ys)
	return fmt.Sprintf("Corrélation %s %s entre %s et %s (r = %.2f). %s : moyenne %.1f%s, écart-type %.1f ; %s : moyenne %.1f%s, écart-type %.1f.",
		Strength(r), sign(r), strings.ToLower(p.X.Label), strings.ToLower(p.Y.Label), r,
		p.X.Label, *xm, unitSuffix(p.X.Unit), *xsd,
		p.Y.Label, *ym, unitSuffix(p.Y.Unit), *ysd)
}

func lineInsight(p *LinePayload) string {
	if len(p.Series) < 2 {
		return ""
	}
	lo, hi := p.Series[0].Value, p.Series[0].Value
	for _, s := range p.Series {
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
	}
	first, last := p.Series[0].Value, p.Series[len(p.Series)-1].Value
	trend := "stable"
	if rng := hi - lo; math.Abs(last-first) >= 0.15*rng && rng > 0 {
		if last > first {
			trend = "à la hausse"
		} else {
			trend = "à la baisse"
		}
	}
	return fmt.Sprintf("%s entre %.1f et %.1f%s sur %d coups ; tendance %s.",
		p.Y.Label, lo, hi, unitSuffix(p.Y.Unit), len(p.Series), trend)
}

// lineVariability scales the coefficient of variation of a series into [0, 1].
func lineVariability(p *LinePayload) float64 {
	values := make([]float64, len(p.Series))
	for i, s := range p.Series {
		values[i] = s.Value
	}
	mean, std := meanStd(values)
	if mean == nil {
		return 0
	}
	if *mean == 0 {
		if *std > 0 {
			return 1
		}
		return 0
	}
	return clamp01(*std / math.Abs(*mean) * 4)
}

// topBin returns the most populated bin (first on ties) and its share.
func topBin(p *HistPayload) (HistBin, float64) {
	if len(p.Bins) == 0 || p.Total == 0 {
		return HistBin{}, 0
	}
	best := p.Bins[0]
	for _, b := range p.Bins[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best, float64(best.Count) / float64(p.Total)
}

func histInsight(p *HistPayload) string {
	b, share := topBin(p)
	if p.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%s : classe dominante %s%s avec %d coups sur %d (%.0f %%).",
		p.X.Label, b.Label, unitSuffix(p.X.Unit), b.Count, p.Total, share*100)
}

func tableInsight(p *TablePayload) string {
	col := -1
	for _, want := range []string{"median", "mean", "max"} {
		for i, c := range p.Columns {
			if c == want {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return ""
	}
	var bestRow *TableRow
	var best float64
	for i := range p.Rows {
		cell := p.Rows[i].Cells[col]
		if cell == nil {
			continue
		}
		if bestRow == nil || *cell > best {
			bestRow, best = &p.Rows[i], *cell
		}
	}
	if bestRow == nil {
		return ""
	}
	return fmt.Sprintf("%s : valeur %s la plus élevée pour « %s » (%.1f%s).",
		p.Metric.Label, columnLabel(p.Columns[col]), bestRow.Key, best, unitSuffix(p.Metric.Unit))
}

func columnLabel(c string) string {
	switch c {
	case "median":
		return "médiane"
	case "mean":
		return "moyenne"
	case "max":
		return "maximale"
	}
	return c
}

func matrixInsight(p *MatrixPayload) string {
	m := CorrelationMatrix{Variables: p.Variables, Matrix: p.Matrix}
	a, b, r, ok := m.Strongest()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Corrélation la plus forte : %s / %s (r = %.2f, %s).",
		FieldLabel(a), FieldLabel(b), r, Strength(r))
}

func modelInsight(p *ModelPayload) string {
	if p.Model == nil {
		return ""
	}
	f, c := p.Model.LargestCoefficient()
	return fmt.Sprintf("Modèle %s : R² = %.2f sur %d coups ; variable la plus influente %s (coefficient %.3f).",
		p.Model.Name, p.Model.R2, p.Model.N, strings.ToLower(FieldLabel(f)), c)
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
