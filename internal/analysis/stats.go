package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// statFields are summarized in globalStats, in this order.
var statFields = append(append([]Field{}, NumericFields...), FieldDistanceFromTarget, FieldRadialMiss)

// Summarize computes count, mean, population std, cv, median, p10 and p90.
func Summarize(values []float64) SummaryStat {
	if len(values) == 0 {
		return SummaryStat{}
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	std := math.Sqrt(variance)
	median, err := stats.Median(values)
	if err != nil {
		median = math.NaN()
	}
	sorted := sortedCopy(values)
	s := SummaryStat{
		Count:  len(values),
		Mean:   ptr(mean),
		Std:    ptr(std),
		Median: ptr(median),
		P10:    ptr(quantile(sorted, 0.10)),
		P90:    ptr(quantile(sorted, 0.90)),
	}
	if mean != 0 {
		s.CV = ptr(math.Abs(std/mean) * 100)
	}
	return s
}

// globalStats summarizes every numeric metric, bound or not.
func globalStats(shots []EnrichedShot) map[Field]SummaryStat {
	out := make(map[Field]SummaryStat, len(statFields))
	for _, f := range statFields {
		out[f] = Summarize(collect(shots, f))
	}
	return out
}

// collect returns the present values of f in shot order.
func collect(shots []EnrichedShot, f Field) []float64 {
	var out []float64
	for i := range shots {
		if v, ok := shots[i].Get(f); ok {
			out = append(out, v)
		}
	}
	return out
}

// meanStd returns the mean and population standard deviation, or nils for an
// empty slice.
func meanStd(values []float64) (*float64, *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return ptr(mean), ptr(math.Sqrt(variance))
}

func meanOf(values []float64) *float64 {
	m, _ := meanStd(values)
	return m
}

// Fences are the Tukey IQR fences of a sample.
type Fences struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (f Fences) outside(v float64) bool { return v < f.Lower || v > f.Upper }

func iqrFences(values []float64) Fences {
	sorted := sortedCopy(values)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{Q1: q1, Q3: q3, Lower: q1 - 1.5*iqr, Upper: q3 + 1.5*iqr}
}

// outlierRatio is the share of values outside the IQR fences.
func outlierRatio(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	f := iqrFences(values)
	n := 0
	for _, v := range values {
		if f.outside(v) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func sortedCopy(values []float64) []float64 {
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
