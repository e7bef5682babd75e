package selection

import (
	"math"
	"strings"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// baseChart is one of the always-considered summary charts.
type baseChart struct {
	key       string
	title     string
	available func(*analysis.Analytics) bool
	score     func(*analysis.Analytics) float64
}

// baseCharts is in enumeration order; selection ties resolve in this order.
var baseCharts = []baseChart{
	{
		key:   "dispersion",
		title: "Dispersion",
		available: func(a *analysis.Analytics) bool {
			return has(a, analysis.FieldCarry) && has(a, analysis.FieldLateral)
		},
		score: func(a *analysis.Analytics) float64 {
			if s := a.Summary; s != nil && s.LateralCorridorPct != nil {
				return 1 - *s.LateralCorridorPct/100
			}
			if st := a.GlobalStats[analysis.FieldLateral]; st.Std != nil {
				return *st.Std / 20
			}
			return 0
		},
	},
	{
		key:       "distances",
		title:     "Distances",
		available: func(a *analysis.Analytics) bool { return has(a, analysis.FieldCarry) },
		score:     func(a *analysis.Analytics) float64 { return cv(a, analysis.FieldCarry) / 10 },
	},
	{
		key:   "speeds",
		title: "Vitesses",
		available: func(a *analysis.Analytics) bool {
			return has(a, analysis.FieldBallSpeed) || has(a, analysis.FieldClubSpeed)
		},
		score: func(a *analysis.Analytics) float64 {
			if m := a.GlobalStats[analysis.FieldSmash].Mean; m != nil {
				return math.Abs(1.48-*m) / 0.2
			}
			return 0
		},
	},
	{
		key:       "smash",
		title:     "Smash factor",
		available: func(a *analysis.Analytics) bool { return has(a, analysis.FieldSmash) },
		score:     func(a *analysis.Analytics) float64 { return cv(a, analysis.FieldSmash) / 5 },
	},
	{
		key:   "spinLaunch",
		title: "Spin et angle de départ",
		available: func(a *analysis.Analytics) bool {
			return has(a, analysis.FieldSpinRPM) || has(a, analysis.FieldLaunchV)
		},
		score: func(a *analysis.Analytics) float64 {
			return math.Max(cv(a, analysis.FieldSpinRPM), cv(a, analysis.FieldLaunchV)) / 25
		},
	},
	{
		key:   "faceImpact",
		title: "Impact sur la face",
		available: func(a *analysis.Analytics) bool {
			return has(a, analysis.FieldImpactLat) && has(a, analysis.FieldImpactVert)
		},
		score: func(a *analysis.Analytics) float64 { return impactOffset(a) / 0.4 },
	},
}

// BaseKeys lists the base chart keys in enumeration order.
func BaseKeys() []string {
	out := make([]string, len(baseCharts))
	for i, b := range baseCharts {
		out[i] = b.key
	}
	return out
}

// BaseTitle returns the title of a base chart, or "" for an unknown key.
func BaseTitle(key string) string {
	for _, b := range baseCharts {
		if b.key == key {
			return b.title
		}
	}
	return ""
}

func has(a *analysis.Analytics, f analysis.Field) bool {
	return a.GlobalStats[f].Count > 0
}

func cv(a *analysis.Analytics, f analysis.Field) float64 {
	if v := a.GlobalStats[f].CV; v != nil {
		return *v
	}
	return 0
}

// impactOffset is the mean distance of impacts from the face center. Without
// the impact scatter it falls back to the root mean square offset implied by
// the global stats.
func impactOffset(a *analysis.Analytics) float64 {
	if e, ok := a.ChartsData["impact_scatter"]; ok && e.Available {
		if p, ok := e.Payload.(*analysis.ScatterPayload); ok && len(p.Points) > 0 {
			sum := 0.0
			for _, pt := range p.Points {
				sum += math.Hypot(pt.X, pt.Y)
			}
			return sum / float64(len(p.Points))
		}
	}
	lat := a.GlobalStats[analysis.FieldImpactLat]
	vert := a.GlobalStats[analysis.FieldImpactVert]
	if lat.Mean == nil || vert.Mean == nil {
		return 0
	}
	lm, ls, vm, vs := *lat.Mean, *lat.Std, *vert.Mean, *vert.Std
	return math.Sqrt(lm*lm + ls*ls + vm*vm + vs*vs)
}

// focusCategory groups chart keys under a narrative focus.
type focusCategory struct {
	key    string
	label  string
	tokens []string
}

var focusCategories = []focusCategory{
	{key: "precision", label: "Précision", tokens: []string{"dispersion", "lateral", "radial", "left_right", "target"}},
	{key: "distance", label: "Distance", tokens: []string{"distance", "carry", "total"}},
	{key: "contact", label: "Contact", tokens: []string{"smash", "impact", "strike", "speed"}},
	{key: "trajectoire", label: "Trajectoire", tokens: []string{"launch", "spin", "height", "descent"}},
	{key: "regularite", label: "Régularité", tokens: []string{"by_shot", "period"}},
}

// FocusKeys lists the focus category keys.
func FocusKeys() []string {
	out := make([]string, len(focusCategories))
	for i, c := range focusCategories {
		out[i] = c.key
	}
	return out
}

// resolveFocus finds the category whose key or label contains focus,
// ignoring case. It returns nil for an empty or unknown focus.
func resolveFocus(focus string) *focusCategory {
	f := strings.ToLower(strings.TrimSpace(focus))
	if f == "" {
		return nil
	}
	for i := range focusCategories {
		c := &focusCategories[i]
		if strings.Contains(c.key, f) || strings.Contains(strings.ToLower(c.label), f) {
			return c
		}
	}
	return nil
}

func (c *focusCategory) matches(key string) bool {
	k := strings.ToLower(key)
	for _, t := range c.tokens {
		if strings.Contains(k, t) {
			return true
		}
	}
	return false
}
