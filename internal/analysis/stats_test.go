package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.Mean)
	assert.Nil(t, s.Std)
	assert.Nil(t, s.CV)
	assert.Nil(t, s.Median)
	assert.Nil(t, s.P10)
	assert.Nil(t, s.P90)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	require.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, *s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(8.25), *s.Std, 1e-9)
	assert.InDelta(t, 5.5, *s.Median, 1e-9)
	assert.InDelta(t, 1.9, *s.P10, 1e-9)
	assert.InDelta(t, 9.1, *s.P90, 1e-9)
	assert.InDelta(t, math.Sqrt(8.25)/5.5*100, *s.CV, 1e-9)
	assert.LessOrEqual(t, *s.P10, *s.Median)
	assert.LessOrEqual(t, *s.Median, *s.P90)
}

func TestSummarizeZeroMeanHasNoCV(t *testing.T) {
	s := Summarize([]float64{-1, 1})
	require.NotNil(t, s.Mean)
	assert.Nil(t, s.CV)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 4.0, quantile(sorted, 1))
	assert.InDelta(t, 2.5, quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-12)
	assert.Equal(t, 0.0, quantile(nil, 0.5))
}

func TestCarryTarget(t *testing.T) {
	target, method, _ := CarryTarget(nil)
	assert.Nil(t, target)
	assert.Equal(t, "", method)

	target, method, ratio := CarryTarget([]float64{148, 150, 152, 149, 151})
	require.NotNil(t, target)
	assert.Equal(t, TargetMean, method)
	assert.InDelta(t, 150, *target, 1e-9)
	assert.Equal(t, 0.0, ratio)

	// two far carries out of ten exceed the 10% outlier share
	target, method, ratio = CarryTarget([]float64{100, 100, 100, 100, 100, 100, 100, 100, 200, 300})
	require.NotNil(t, target)
	assert.Equal(t, TargetMedian, method)
	assert.InDelta(t, 100, *target, 1e-9)
	assert.InDelta(t, 0.2, ratio, 1e-9)
}

func TestBinLabel(t *testing.T) {
	cuts := [2]float64{1, 2}
	cases := map[float64]string{0.5: "low", 1: "low", 1.5: "mid", 2: "mid", 2.1: "high"}
	for v, want := range cases {
		assert.Equal(t, want, binLabel(v, cuts), "value %v", v)
	}
}

func TestImpactAxis(t *testing.T) {
	assert.Equal(t, "center", impactAxis(0.4, 0.4, "toe", "heel"))
	assert.Equal(t, "toe", impactAxis(0.5, 0.4, "toe", "heel"))
	assert.Equal(t, "heel", impactAxis(-0.5, 0.4, "toe", "heel"))
}

func TestAssignTertiles(t *testing.T) {
	shots := make([]EnrichedShot, 9)
	for i := range shots {
		// reversed so labels follow the index, not the slice position
		shots[i].Index = 9 - i
	}
	assignTertiles(shots)
	for _, s := range shots {
		want := "late"
		switch {
		case s.Index <= 3:
			want = "early"
		case s.Index <= 6:
			want = "mid"
		}
		assert.Equal(t, want, s.PeriodTertile, "shot %d", s.Index)
	}
}

func TestAssignTertilesBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		indices []int
		want    []string
	}{
		{"ten shots", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			[]string{"early", "early", "early", "mid", "mid", "mid", "late", "late", "late", "late"}},
		{"duplicate index", []int{1, 1, 2, 3, 4, 5},
			[]string{"early", "early", "mid", "mid", "late", "late"}},
	}
	for _, c := range cases {
		shots := make([]EnrichedShot, len(c.indices))
		for i, idx := range c.indices {
			shots[i].Index = idx
		}
		assignTertiles(shots)
		got := make([]string, len(shots))
		for i, s := range shots {
			got[i] = s.PeriodTertile
		}
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestEnrichDerivedFields(t *testing.T) {
	shots := []NormalizedShot{
		{Index: 1, Values: map[Field]float64{FieldCarry: 100, FieldLateral: -3, FieldFTP: -2, FieldBallSpeed: 60, FieldImpactLat: 0.6, FieldImpactVert: -0.1}},
		{Index: 2, Values: map[Field]float64{FieldCarry: 110, FieldLateral: 4, FieldSmash: 1.45}},
		{Index: 3, Values: map[Field]float64{FieldLateral: 0}},
	}
	out, d := enrich(shots, DefaultConfig())
	require.Len(t, out, 3)
	require.NotNil(t, d.CarryTarget)
	assert.Equal(t, TargetMean, d.CarryTargetMethod)
	assert.InDelta(t, 105, *d.CarryTarget, 1e-9)

	dft, ok := out[0].Get(FieldDistanceFromTarget)
	require.True(t, ok)
	assert.InDelta(t, -5, dft, 1e-9)
	radial, _ := out[0].Get(FieldRadialMiss)
	assert.InDelta(t, math.Hypot(3, 5), radial, 1e-9)
	abs, _ := out[0].Get(FieldAbsFTP)
	assert.Equal(t, 2.0, abs)

	strike, _ := out[0].Get(FieldStrikeScore)
	assert.Equal(t, 60.0, strike, "ball speed stands in for a missing smash")
	strike, _ = out[1].Get(FieldStrikeScore)
	assert.Equal(t, 1.45, strike)

	assert.Equal(t, "L", out[0].LeftRight)
	assert.Equal(t, "R", out[1].LeftRight)
	assert.Equal(t, "R", out[2].LeftRight, "zero lateral counts as right")
	assert.Equal(t, "toe-center", out[0].ImpactZone)
	assert.Equal(t, "", out[1].ImpactZone)

	_, ok = out[2].Get(FieldDistanceFromTarget)
	assert.False(t, ok)
	_, ok = shots[0].Values[FieldDistanceFromTarget]
	assert.False(t, ok, "input shots must not be modified")
	assert.Equal(t, 10.0, d.Thresholds["lateralCorridor"])
}
