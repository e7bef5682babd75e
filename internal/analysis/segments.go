package analysis

import "math"

// Segment dimension names.
const (
	SegByShotType       = "byShotType"
	SegByLeftRight      = "byLeftRight"
	SegBySmashBin       = "bySmashBin"
	SegByImpactZone     = "byImpactZone"
	SegByAbsFTPQuantile = "byAbsFtpQuantile"
	SegByLaunchVBin     = "byLaunchVBin"
	SegByPeriodTertile  = "byPeriodTertile"
)

// SegmentSummary aggregates the shots of one bucket.
type SegmentSummary struct {
	Key                 string   `json:"key"`
	Count               int      `json:"count"`
	CarryMean           *float64 `json:"carryMean"`
	CarryStd            *float64 `json:"carryStd"`
	TotalMean           *float64 `json:"totalMean"`
	TotalStd            *float64 `json:"totalStd"`
	LateralMean         *float64 `json:"lateralMean"`
	LateralStd          *float64 `json:"lateralStd"`
	SmashMean           *float64 `json:"smashMean"`
	SpinMean            *float64 `json:"spinMean"`
	LaunchVMean         *float64 `json:"launchVMean"`
	FTPMean             *float64 `json:"ftpMean"`
	PathMean            *float64 `json:"pathMean"`
	LateralCorridorPct  *float64 `json:"lateralCorridorPct"`
	DistanceCorridorPct *float64 `json:"distanceCorridorPct"`
}

// Segment is one dimension with its buckets in first-seen order.
type Segment struct {
	Dimension string           `json:"dimension"`
	Summaries []SegmentSummary `json:"summaries"`
}

type dimension struct {
	name string
	// key returns the bucket of a shot, or "" to leave it out.
	key func(*EnrichedShot) string
}

// Dimensions lists the segment dimension names in output order.
var Dimensions = func() []string {
	out := make([]string, len(dimensions))
	for i, d := range dimensions {
		out[i] = d.name
	}
	return out
}()

var dimensions = []dimension{
	{SegByShotType, func(s *EnrichedShot) string { return s.ShotType }},
	{SegByLeftRight, func(s *EnrichedShot) string { return s.LeftRight }},
	{SegBySmashBin, func(s *EnrichedShot) string { return s.SmashBin }},
	{SegByImpactZone, func(s *EnrichedShot) string { return s.ImpactZone }},
	{SegByAbsFTPQuantile, func(s *EnrichedShot) string { return s.AbsFTPBin }},
	{SegByLaunchVBin, func(s *EnrichedShot) string { return s.LaunchVBin }},
	{SegByPeriodTertile, func(s *EnrichedShot) string { return s.PeriodTertile }},
}

// Segments buckets shots along every dimension.
func Segments(shots []EnrichedShot, cfg Config) map[string]Segment {
	out := make(map[string]Segment, len(dimensions))
	for _, d := range dimensions {
		var order []string
		buckets := map[string][]EnrichedShot{}
		for i := range shots {
			k := d.key(&shots[i])
			if k == "" {
				continue
			}
			if _, seen := buckets[k]; !seen {
				order = append(order, k)
			}
			buckets[k] = append(buckets[k], shots[i])
		}
		seg := Segment{Dimension: d.name, Summaries: make([]SegmentSummary, 0, len(order))}
		for _, k := range order {
			seg.Summaries = append(seg.Summaries, summarizeBucket(k, buckets[k], cfg))
		}
		out[d.name] = seg
	}
	return out
}

func summarizeBucket(key string, shots []EnrichedShot, cfg Config) SegmentSummary {
	s := SegmentSummary{Key: key, Count: len(shots)}
	s.CarryMean, s.CarryStd = meanStd(collect(shots, FieldCarry))
	s.TotalMean, s.TotalStd = meanStd(collect(shots, FieldTotal))
	lateral := collect(shots, FieldLateral)
	s.LateralMean, s.LateralStd = meanStd(lateral)
	s.SmashMean = meanOf(collect(shots, FieldSmash))
	s.SpinMean = meanOf(collect(shots, FieldSpinRPM))
	s.LaunchVMean = meanOf(collect(shots, FieldLaunchV))
	s.FTPMean = meanOf(collect(shots, FieldFTP))
	s.PathMean = meanOf(collect(shots, FieldPath))
	s.LateralCorridorPct = corridorPct(lateral, cfg.LateralCorridor)
	s.DistanceCorridorPct = corridorPct(collect(shots, FieldDistanceFromTarget), cfg.DistanceCorridor)
	return s
}

// corridorPct is the share of values with |v| <= halfWidth, in percent
// rounded to one decimal.
func corridorPct(values []float64, halfWidth float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	in := 0
	for _, v := range values {
		if math.Abs(v) <= halfWidth {
			in++
		}
	}
	return ptr(round(float64(in)/float64(len(values))*100, 1))
}
