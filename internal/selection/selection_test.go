package selection_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	"github.com/KaramelBytes/radar-cli/internal/selection"
)

func session(t *testing.T) *analysis.Analytics {
	t.Helper()
	cols := []analysis.RadarColumn{
		{Key: "no", Label: "Shot No"},
		{Key: "carry", Label: "Carry Distance", Unit: "m"},
		{Key: "side", Label: "Carry Side", Unit: "m"},
		{Key: "club", Label: "Club Speed", Unit: "mph"},
		{Key: "ball", Label: "Ball Speed", Unit: "mph"},
		{Key: "smash", Label: "Smash Factor"},
		{Key: "spin", Label: "Spin Rate", Unit: "rpm"},
		{Key: "launch", Label: "Launch Angle", Unit: "deg"},
	}
	var shots []analysis.Shot
	for i := 1; i <= 15; i++ {
		club := 85 + float64(i%4)
		ball := club*1.4 + float64(i%3)
		shots = append(shots, analysis.Shot{
			"no":     fmt.Sprint(i),
			"carry":  160 + 2*float64(i%5) + float64(i)/3,
			"side":   float64(i%7) - 3,
			"club":   club,
			"ball":   ball,
			"smash":  ball / club,
			"spin":   6000 + 90*float64(i%4),
			"launch": 16 + 0.5*float64(i%3),
		})
	}
	return analysis.ComputeAnalytics(cols, shots, analysis.DefaultConfig(), analysis.ClubBall{})
}

func TestSelectPresetBounds(t *testing.T) {
	a := session(t)
	for _, name := range selection.PresetNames {
		sel := selection.Select(a, analysis.AutoSelectConfig{Preset: name})
		p := selection.LookupPreset(name)
		assert.Equal(t, name, sel.Preset.Name)
		assert.NotEmpty(t, sel.Keys, name)
		assert.LessOrEqual(t, len(sel.Keys), p.MaxTotal, name)
		bases := 0
		for _, c := range sel.Candidates {
			if c.Base && c.Selected {
				bases++
			}
		}
		assert.GreaterOrEqual(t, bases, min(p.MinBase, 5), name)
	}
	ultra := selection.Select(a, analysis.AutoSelectConfig{Preset: "ultra"})
	assert.True(t, len(ultra.Keys) >= 1 && len(ultra.Keys) <= 2, "ultra keys: %v", ultra.Keys)
}

func TestSelectCompletEnablesEveryBaseChart(t *testing.T) {
	a := session(t)
	sel := selection.Select(a, analysis.AutoSelectConfig{Preset: "complet"})
	bases := 0
	for _, c := range sel.Candidates {
		if c.Base {
			bases++
			assert.True(t, c.Selected, c.Key)
		}
	}
	assert.GreaterOrEqual(t, bases, 4)
	assert.Contains(t, sel.Keys, "dispersion")
	assert.NotContains(t, sel.Keys, "faceImpact", "no impact columns")
}

func TestSelectKeysFollowEnumerationOrder(t *testing.T) {
	a := session(t)
	sel := selection.Select(a, analysis.AutoSelectConfig{Preset: "pousse"})
	pos := map[string]int{}
	for i, c := range sel.Candidates {
		pos[c.Key] = i
	}
	for i := 1; i < len(sel.Keys); i++ {
		assert.Less(t, pos[sel.Keys[i-1]], pos[sel.Keys[i]])
	}
	for _, c := range sel.Candidates {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	a := session(t)
	cfg := analysis.AutoSelectConfig{Preset: "standard", Focus: "distance"}
	first := selection.Select(a, cfg)
	second := selection.Select(a, cfg)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("selection changed between runs (-first +second):\n%s", diff)
	}
}

func TestSelectFocus(t *testing.T) {
	a := session(t)
	plain := selection.Select(a, analysis.AutoSelectConfig{Preset: "standard"})
	focused := selection.Select(a, analysis.AutoSelectConfig{Preset: "standard", Focus: "Précision"})
	assert.Equal(t, "precision", focused.Focus)
	assert.Equal(t, "", plain.Focus)

	scores := map[string]float64{}
	for _, c := range plain.Candidates {
		scores[c.Key] = c.Score
	}
	for _, c := range focused.Candidates {
		if c.Key == "dispersion_scatter" {
			require.True(t, c.Focused)
			assert.GreaterOrEqual(t, c.Score, scores[c.Key])
		}
		if c.Key == "carry_hist" {
			assert.False(t, c.Focused)
			assert.Equal(t, scores[c.Key], c.Score)
		}
	}

	unknown := selection.Select(a, analysis.AutoSelectConfig{Focus: "putting"})
	assert.Equal(t, "", unknown.Focus)
}

func TestSelectSkipsDisabledCharts(t *testing.T) {
	cols := []analysis.RadarColumn{{Key: "no", Label: "Shot No"}, {Key: "c", Label: "Carry", Unit: "m"}}
	var shots []analysis.Shot
	for i := 1; i <= 10; i++ {
		shots = append(shots, analysis.Shot{"no": i, "c": 150 + i})
	}
	cfg := analysis.DefaultConfig()
	cfg.Charts = map[string]bool{"carry_hist": false}
	a := analysis.ComputeAnalytics(cols, shots, cfg, analysis.ClubBall{})
	sel := selection.Select(a, analysis.AutoSelectConfig{Preset: "complet"})
	for _, c := range sel.Candidates {
		assert.NotEqual(t, "carry_hist", c.Key)
	}
}

func TestNarrativeMode(t *testing.T) {
	assert.Equal(t, selection.NarrativeGlobal, selection.NarrativeMode(" GLOBAL "))
	assert.Equal(t, selection.NarrativePerChart, selection.NarrativeMode(""))
	assert.Equal(t, selection.NarrativePerChart, selection.NarrativeMode("bogus"))
}

func TestLookupPresetFallsBackToStandard(t *testing.T) {
	assert.Equal(t, "standard", selection.LookupPreset("nope").Name)
	assert.Equal(t, "ultra", selection.LookupPreset(" Ultra ").Name)
}

func TestEmptyAnalytics(t *testing.T) {
	a := analysis.ComputeAnalytics(nil, nil, analysis.DefaultConfig(), analysis.ClubBall{})
	sel := selection.Select(a, analysis.AutoSelectConfig{})
	assert.Empty(t, sel.Keys)
	assert.NotNil(t, sel.Keys)
	assert.Equal(t, "standard", sel.Preset.Name)
}
