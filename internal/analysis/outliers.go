package analysis

import (
	"math"
	"sort"
)

// OutlierMethod names the fence rule used by DetectOutliers.
const OutlierMethod = "iqr"

// MetricOutliers lists the shots outside the fences of one metric.
type MetricOutliers struct {
	Fences *Fences `json:"fences"`
	Shots  []int   `json:"shots"`
}

// RankedShot is one entry of a worst/best ranking.
type RankedShot struct {
	Shot  int     `json:"shot"`
	Value float64 `json:"value"`
}

// OutlierResult holds per-metric IQR outliers and three shot rankings.
type OutlierResult struct {
	Method            string                   `json:"method"`
	ByMetric          map[Field]MetricOutliers `json:"byMetric"`
	Flags             map[int][]Field          `json:"flags"`
	Worst10Distance   []RankedShot             `json:"worst10_distance"`
	Worst10Dispersion []RankedShot             `json:"worst10_dispersion"`
	Top20Strikes      []RankedShot             `json:"top20_strikes"`
}

// DetectOutliers applies the IQR fences to each metric and ranks shots by
// distance error, radial miss and strike quality.
func DetectOutliers(shots []EnrichedShot, metrics []Field) OutlierResult {
	res := OutlierResult{
		Method:            OutlierMethod,
		ByMetric:          make(map[Field]MetricOutliers, len(metrics)),
		Flags:             map[int][]Field{},
		Worst10Distance:   []RankedShot{},
		Worst10Dispersion: []RankedShot{},
		Top20Strikes:      []RankedShot{},
	}
	for _, m := range metrics {
		values := collect(shots, m)
		mo := MetricOutliers{Shots: []int{}}
		if len(values) > 0 {
			f := iqrFences(values)
			mo.Fences = &f
			for i := range shots {
				v, ok := shots[i].Get(m)
				if !ok || !f.outside(v) {
					continue
				}
				idx := shots[i].Index
				mo.Shots = append(mo.Shots, idx)
				res.Flags[idx] = append(res.Flags[idx], m)
			}
		}
		res.ByMetric[m] = mo
	}
	res.Worst10Distance = rankShots(shots, FieldDistanceFromTarget, 10, math.Abs)
	res.Worst10Dispersion = rankShots(shots, FieldRadialMiss, 10, math.Abs)
	res.Top20Strikes = rankShots(shots, FieldStrikeScore, 20, nil)
	return res
}

// rankShots sorts shots carrying f by descending key and keeps ceil(percent%)
// of them, at least one. Equal keys keep shot order.
func rankShots(shots []EnrichedShot, f Field, percent int, key func(float64) float64) []RankedShot {
	var ranked []RankedShot
	for i := range shots {
		v, ok := shots[i].Get(f)
		if !ok {
			continue
		}
		if key != nil {
			v = key(v)
		}
		ranked = append(ranked, RankedShot{Shot: shots[i].Index, Value: v})
	}
	if len(ranked) == 0 {
		return []RankedShot{}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	keep := (len(ranked)*percent + 99) / 100
	if keep < 1 {
		keep = 1
	}
	return ranked[:keep]
}

// FlaggedShots returns the outlier shot indices in ascending order.
func (r OutlierResult) FlaggedShots() []int {
	out := make([]int, 0, len(r.Flags))
	for idx := range r.Flags {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
