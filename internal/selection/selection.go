// Package selection picks a bounded, scored subset of charts from an
// analytics artifact to ground narrative generation.
package selection

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// Narrative modes.
const (
	NarrativeGlobal   = "global"
	NarrativePerChart = "per_chart"
)

// preferredScore is the score from which a candidate is wanted on its own.
const preferredScore = 0.45

// focusBoost is added to candidates matching the requested focus.
const focusBoost = 0.2

// Preset bounds how many charts may be selected.
type Preset struct {
	Name     string `json:"name"`
	MinTotal int    `json:"minTotal"`
	MaxTotal int    `json:"maxTotal"`
	MinBase  int    `json:"minBase"`
}

var presets = map[string]Preset{
	"ultra":     {Name: "ultra", MinTotal: 1, MaxTotal: 2, MinBase: 1},
	"synthetic": {Name: "synthetic", MinTotal: 1, MaxTotal: 4, MinBase: 1},
	"standard":  {Name: "standard", MinTotal: 3, MaxTotal: 6, MinBase: 2},
	"pousse":    {Name: "pousse", MinTotal: 4, MaxTotal: 10, MinBase: 4},
	"complet":   {Name: "complet", MinTotal: 5, MaxTotal: 10, MinBase: 6},
}

// PresetNames lists the presets from smallest to largest.
var PresetNames = []string{"ultra", "synthetic", "standard", "pousse", "complet"}

// LookupPreset returns the named preset, or standard for an unknown name.
func LookupPreset(name string) Preset {
	if p, ok := presets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return presets["standard"]
}

// Candidate is one chart considered by Select.
type Candidate struct {
	Key      string  `json:"key"`
	Title    string  `json:"title"`
	Base     bool    `json:"base"`
	Score    float64 `json:"score"`
	Focused  bool    `json:"focused,omitempty"`
	Selected bool    `json:"selected"`
}

// Selection is the result of Select. Keys keeps enumeration order: base
// charts first, then registry order.
type Selection struct {
	Preset     Preset      `json:"preset"`
	Focus      string      `json:"focus,omitempty"`
	Narrative  string      `json:"narrative"`
	Keys       []string    `json:"keys"`
	Candidates []Candidate `json:"candidates"`
}

// Select scores every available chart of a and enables a preset-bounded
// subset. It is deterministic: ties keep enumeration order.
func Select(a *analysis.Analytics, cfg analysis.AutoSelectConfig) Selection {
	preset := LookupPreset(cfg.Preset)
	sel := Selection{Preset: preset, Narrative: NarrativeMode(cfg.Syntax), Keys: []string{}}
	cat := resolveFocus(cfg.Focus)
	if cat != nil {
		sel.Focus = cat.key
	}

	var cands []Candidate
	for _, b := range baseCharts {
		if !b.available(a) {
			continue
		}
		cands = append(cands, Candidate{Key: b.key, Title: b.title, Base: true, Score: clamp01(b.score(a))})
	}
	nBase := len(cands)
	for _, d := range analysis.Registry {
		e, ok := a.ChartsData[d.Key]
		if !ok || !e.Available || !e.Enabled {
			continue
		}
		score := 0.0
		if e.Score != nil {
			score = *e.Score
		} else if e.Payload != nil {
			score = analysis.PayloadScore(e.Payload)
		}
		cands = append(cands, Candidate{Key: e.Key, Title: e.Title, Score: clamp01(score)})
	}
	for i := range cands {
		if cat != nil && cat.matches(cands[i].Key) {
			cands[i].Focused = true
			cands[i].Score = clamp01(cands[i].Score + focusBoost)
		}
	}

	enabled := 0
	enable := func(i int) {
		if !cands[i].Selected {
			cands[i].Selected = true
			enabled++
		}
	}

	// (a) base charts
	if preset.Name == "complet" {
		for i := 0; i < nBase; i++ {
			enable(i)
		}
	} else {
		for _, i := range byScore(cands, indices(0, nBase)) {
			if enabled >= preset.MinBase {
				break
			}
			enable(i)
		}
	}

	// (b) desired total
	var preferred []int
	for i := range cands {
		if cands[i].Score >= preferredScore {
			preferred = append(preferred, i)
		}
	}
	desired := min(max(preset.MinTotal, enabled, len(preferred)), preset.MaxTotal)

	// (c) fill
	pool := preferred
	if len(pool) == 0 {
		pool = indices(0, len(cands))
	}
	for _, i := range byScore(cands, pool) {
		if enabled >= desired {
			break
		}
		enable(i)
	}

	for _, c := range cands {
		if c.Selected {
			sel.Keys = append(sel.Keys, c.Key)
		}
	}
	sel.Candidates = cands
	return sel
}

// NarrativeMode maps the syntax option to a narrative mode.
func NarrativeMode(syntax string) string {
	if strings.EqualFold(strings.TrimSpace(syntax), NarrativeGlobal) {
		return NarrativeGlobal
	}
	return NarrativePerChart
}

// byScore returns idx sorted by descending score; equal scores keep the
// order of idx.
func byScore(cands []Candidate, idx []int) []int {
	out := append([]int(nil), idx...)
	sort.SliceStable(out, func(i, j int) bool { return cands[out[i]].Score > cands[out[j]].Score })
	return out
}

func indices(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
