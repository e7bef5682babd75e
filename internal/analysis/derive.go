package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Carry target selection methods.
const (
	TargetMedian = "median"
	TargetMean   = "mean"
)

// binnedMetrics are cut into low/mid/high bins by global quantiles.
var binnedMetrics = []Field{FieldSmash, FieldBallSpeed, FieldLaunchV, FieldAbsFTP}

// CarryTarget estimates the reference distance of a session: the median when
// more than 10% of carries fall outside the IQR fences, the mean otherwise.
// It returns nil when no carry is present.
func CarryTarget(carries []float64) (target *float64, method string, ratio float64) {
	if len(carries) == 0 {
		return nil, "", 0
	}
	median, err := stats.Median(carries)
	if err != nil {
		return nil, "", 0
	}
	ratio = outlierRatio(carries)
	mean := meanOf(carries)
	if ratio > 0.10 || mean == nil || math.IsNaN(*mean) {
		return ptr(median), TargetMedian, ratio
	}
	return mean, TargetMean, ratio
}

// enrich derives per-shot fields. The returned shots share Values maps with
// the input, which is never written to.
func enrich(shots []NormalizedShot, cfg Config) ([]EnrichedShot, Derived) {
	d := Derived{
		BinCuts:         map[string][2]float64{},
		ImpactHalfWidth: cfg.ImpactHalfWidth,
		Thresholds: map[string]float64{
			"lateralCorridor":  cfg.LateralCorridor,
			"distanceCorridor": cfg.DistanceCorridor,
		},
	}
	var carries []float64
	for _, s := range shots {
		if v, ok := s.Value(FieldCarry); ok {
			carries = append(carries, v)
		}
	}
	target, method, ratio := CarryTarget(carries)
	d.CarryTarget = target
	d.CarryTargetMethod = method
	if target != nil {
		d.CarryOutlierRatio = ptr(ratio)
	}

	out := make([]EnrichedShot, len(shots))
	for i, s := range shots {
		e := EnrichedShot{NormalizedShot: s, Derived: map[Field]float64{}}
		carry, hasCarry := s.Value(FieldCarry)
		lateral, hasLateral := s.Value(FieldLateral)
		if hasCarry && target != nil {
			dft := carry - *target
			e.Derived[FieldDistanceFromTarget] = dft
			if hasLateral {
				e.Derived[FieldRadialMiss] = math.Hypot(lateral, dft)
			}
		}
		if hasLateral {
			if lateral < 0 {
				e.LeftRight = "L"
			} else {
				e.LeftRight = "R"
			}
		}
		if ftp, ok := s.Value(FieldFTP); ok {
			e.Derived[FieldAbsFTP] = math.Abs(ftp)
		}
		if v, ok := s.Value(FieldSmash); ok {
			e.Derived[FieldStrikeScore] = v
		} else if v, ok := s.Value(FieldBallSpeed); ok {
			e.Derived[FieldStrikeScore] = v
		}
		lat, hasLat := s.Value(FieldImpactLat)
		vert, hasVert := s.Value(FieldImpactVert)
		if hasLat && hasVert {
			e.ImpactZone = impactAxis(lat, cfg.ImpactHalfWidth, "toe", "heel") + "-" +
				impactAxis(vert, cfg.ImpactHalfWidth, "high", "low")
		}
		out[i] = e
	}

	for _, f := range binnedMetrics {
		values := collect(out, f)
		if len(values) == 0 {
			continue
		}
		sorted := sortedCopy(values)
		cuts := [2]float64{quantile(sorted, cfg.BinQuantiles[0]), quantile(sorted, cfg.BinQuantiles[1])}
		d.BinCuts[string(f)] = cuts
		for i := range out {
			v, ok := out[i].Get(f)
			if !ok {
				continue
			}
			b := binLabel(v, cuts)
			switch f {
			case FieldSmash:
				out[i].SmashBin = b
			case FieldBallSpeed:
				out[i].BallSpeedBin = b
			case FieldLaunchV:
				out[i].LaunchVBin = b
			case FieldAbsFTP:
				out[i].AbsFTPBin = b
			}
		}
	}

	assignTertiles(out)
	return out, d
}

func binLabel(v float64, cuts [2]float64) string {
	switch {
	case v <= cuts[0]:
		return "low"
	case v <= cuts[1]:
		return "mid"
	default:
		return "high"
	}
}

func impactAxis(v, halfWidth float64, positive, negative string) string {
	switch {
	case math.Abs(v) <= halfWidth:
		return "center"
	case v > 0:
		return positive
	default:
		return negative
	}
}

// assignTertiles labels each shot early/mid/late from the rank of its shot
// index. Equal indices share the lowest rank, so ties land in the lower
// bucket.
func assignTertiles(shots []EnrichedShot) {
	n := len(shots)
	if n == 0 {
		return
	}
	indices := make([]int, n)
	for i, s := range shots {
		indices[i] = s.Index
	}
	sort.Ints(indices)
	third := float64(n) / 3
	for i := range shots {
		// 1-based rank; a rank landing on a boundary stays in the lower bucket.
		rank := float64(sort.SearchInts(indices, shots[i].Index) + 1)
		switch {
		case rank <= third:
			shots[i].PeriodTertile = "early"
		case rank <= 2*third:
			shots[i].PeriodTertile = "mid"
		default:
			shots[i].PeriodTertile = "late"
		}
	}
}
