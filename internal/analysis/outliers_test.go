package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carryShots(carries ...float64) []NormalizedShot {
	out := make([]NormalizedShot, len(carries))
	for i, c := range carries {
		out[i] = NormalizedShot{Index: i + 1, Values: map[Field]float64{FieldCarry: c}}
	}
	return out
}

func TestDetectOutliersIQR(t *testing.T) {
	shots, _ := enrich(carryShots(1, 2, 3, 4, 5, 6, 7, 8, 9, 100), DefaultConfig())
	res := DetectOutliers(shots, []Field{FieldCarry})

	assert.Equal(t, OutlierMethod, res.Method)
	mo := res.ByMetric[FieldCarry]
	require.NotNil(t, mo.Fences)
	assert.InDelta(t, 3.25, mo.Fences.Q1, 1e-9)
	assert.InDelta(t, 7.75, mo.Fences.Q3, 1e-9)
	assert.InDelta(t, 14.5, mo.Fences.Upper, 1e-9)
	if diff := cmp.Diff([]int{10}, mo.Shots); diff != "" {
		t.Fatalf("carry outliers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int][]Field{10: {FieldCarry}}, res.Flags); diff != "" {
		t.Fatalf("flags (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{10}, res.FlaggedShots())

	require.Len(t, res.Worst10Distance, 1)
	assert.Equal(t, 10, res.Worst10Distance[0].Shot)
	assert.Empty(t, res.Worst10Dispersion, "no lateral, no radial miss")
	assert.Empty(t, res.Top20Strikes, "no smash or ball speed")
}

func TestDetectOutliersMetricWithoutValues(t *testing.T) {
	shots, _ := enrich(carryShots(1, 2, 3), DefaultConfig())
	res := DetectOutliers(shots, []Field{FieldSmash})
	mo, ok := res.ByMetric[FieldSmash]
	require.True(t, ok)
	assert.Nil(t, mo.Fences)
	assert.Empty(t, mo.Shots)
}

func TestRankShotsKeepsPercentRoundedUp(t *testing.T) {
	shots := make([]EnrichedShot, 30)
	for i := range shots {
		shots[i] = EnrichedShot{
			NormalizedShot: NormalizedShot{Index: i + 1, Values: map[Field]float64{}},
			Derived:        map[Field]float64{FieldStrikeScore: float64(i % 10)},
		}
	}
	top := rankShots(shots, FieldStrikeScore, 20, nil)
	require.Len(t, top, 6)
	// equal scores keep shot order
	want := []int{10, 20, 30, 9, 19, 29}
	for i, r := range top {
		assert.Equal(t, want[i], r.Shot)
	}

	worst := rankShots(shots[:3], FieldStrikeScore, 10, nil)
	assert.Len(t, worst, 1, "at least one shot is kept")
}
