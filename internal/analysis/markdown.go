package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact context for a narrative writer. selected lists
// the chart keys to describe, in order; narrative is "global" or "per_chart".
func (a *Analytics) Markdown(selected []string, narrative string) string {
	var b strings.Builder
	b.WriteString("[SESSION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Version: %s\n", a.Version))
	if a.Meta.Club != "" {
		b.WriteString(fmt.Sprintf("Club: %s\n", a.Meta.Club))
	}
	if a.Meta.Ball != "" {
		b.WriteString(fmt.Sprintf("Ball: %s\n", a.Meta.Ball))
	}
	b.WriteString(fmt.Sprintf("Shots: %d (raw rows %d, dropped %d summary / %d invalid index)\n",
		a.Meta.ShotCount, a.Meta.RawRowCount, a.Meta.DroppedRows.Summary, a.Meta.DroppedRows.Index))
	if t := a.Derived.CarryTarget; t != nil {
		b.WriteString(fmt.Sprintf("Carry target: %.1f%s (%s)\n", *t, unitSuffix(a.Meta.Units[FieldCarry]), a.Derived.CarryTargetMethod))
	}
	if s := a.Summary; s != nil {
		writeOpt(&b, "Lateral corridor", s.LateralCorridorPct, "%")
		writeOpt(&b, "Distance corridor", s.DistanceCorridorPct, "%")
		writeOpt(&b, "Left", s.LeftPct, "%")
		writeOpt(&b, "Right", s.RightPct, "%")
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, f := range Fields {
		key, ok := a.Meta.ColumnMap[f]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s <- %s%s\n", f, safeVal(key), unitSuffix(a.Meta.Units[f])))
	}
	if len(a.Meta.MissingColumns) > 0 {
		names := make([]string, len(a.Meta.MissingColumns))
		for i, f := range a.Meta.MissingColumns {
			names[i] = string(f)
		}
		b.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(names, ", ")))
	}

	b.WriteString("\n[GLOBAL STATS]\n")
	for _, f := range statFields {
		s, ok := a.GlobalStats[f]
		if !ok || s.Count == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: n=%d, mean %.4g, std %.4g, median %.4g, p10 %.4g, p90 %.4g",
			f, s.Count, *s.Mean, *s.Std, *s.Median, *s.P10, *s.P90))
		if s.CV != nil {
			b.WriteString(fmt.Sprintf(", cv %.1f%%", *s.CV))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[SEGMENTS]\n")
	for _, name := range Dimensions {
		seg := a.Segments[name]
		if len(seg.Summaries) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s\n", name))
		for _, s := range seg.Summaries {
			b.WriteString(fmt.Sprintf("  • %s (n=%d)", safeVal(s.Key), s.Count))
			if s.CarryMean != nil {
				b.WriteString(fmt.Sprintf(": carry %.1f", *s.CarryMean))
			}
			if s.LateralMean != nil {
				b.WriteString(fmt.Sprintf(", lateral %.1f", *s.LateralMean))
			}
			if s.SmashMean != nil {
				b.WriteString(fmt.Sprintf(", smash %.2f", *s.SmashMean))
			}
			b.WriteString("\n")
		}
	}

	if len(a.Outliers.Flags) > 0 {
		b.WriteString("\n[OUTLIERS]\n")
		for _, idx := range a.Outliers.FlaggedShots() {
			names := make([]string, len(a.Outliers.Flags[idx]))
			for i, f := range a.Outliers.Flags[idx] {
				names[i] = string(f)
			}
			b.WriteString(fmt.Sprintf("- shot %d: %s\n", idx, strings.Join(names, ", ")))
		}
	}

	if a.Correlations != nil {
		b.WriteString("\n[CORRELATIONS]\n")
		m := a.Correlations
		for i := range m.Variables {
			for j := i + 1; j < len(m.Variables); j++ {
				if r := m.Matrix[i][j]; r >= 0.5 || r <= -0.5 {
					b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", m.Variables[i], m.Variables[j], r))
				}
			}
		}
	}

	if a.Models.Distance != nil || a.Models.Lateral != nil {
		b.WriteString("\n[MODELS]\n")
		for _, m := range []*RegressionModel{a.Models.Distance, a.Models.Lateral} {
			if m == nil {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %s = %.4g", m.Name, m.Target, m.Intercept))
			for _, f := range m.Features {
				b.WriteString(fmt.Sprintf(" %+.4g·%s", m.Coefficients[f], f))
			}
			b.WriteString(fmt.Sprintf(" (R²=%.3f, RMSE=%.3g, n=%d)\n", m.R2, m.RMSE, m.N))
		}
	}

	if len(selected) > 0 {
		b.WriteString(fmt.Sprintf("\n[SELECTED CHARTS] (narrative: %s)\n", narrative))
		for _, key := range selected {
			e, ok := a.ChartsData[key]
			if !ok {
				b.WriteString(fmt.Sprintf("- %s\n", key))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %s", key, e.Title))
			if e.Insight != "" {
				b.WriteString(" — " + e.Insight)
			}
			b.WriteString("\n")
		}
	}

	if len(a.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, s := range a.Insights {
			b.WriteString("- " + s + "\n")
		}
	}

	if len(a.Meta.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range a.Meta.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeOpt(b *strings.Builder, label string, v *float64, unit string) {
	if v == nil {
		return
	}
	b.WriteString(fmt.Sprintf("%s: %.1f%s\n", label, *v, unit))
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
