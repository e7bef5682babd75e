package analysis

import "fmt"

// ComputeAnalytics runs the full pipeline over one session table. It never
// fails: missing columns, sparse samples and malformed cells only shrink the
// output. cfg zero values fall back to DefaultConfig.
func ComputeAnalytics(columns []RadarColumn, shots []Shot, cfg Config, cb ClubBall) *Analytics {
	cfg = cfg.resolved()

	cm, units := MapColumns(columns)
	normalized, dropped := NormalizeShots(shots, cm)
	enriched, derived := enrich(normalized, cfg)

	a := &Analytics{
		Version: Version,
		Meta: Meta{
			ShotCount:      len(normalized),
			RawRowCount:    len(shots),
			DroppedRows:    dropped,
			ColumnMap:      make(map[Field]string, len(cm)),
			Units:          units,
			MissingColumns: MissingFields(cm),
			Club:           cb.Club,
			Ball:           cb.Ball,
			Warnings:       warnings(cm, normalized, dropped),
		},
		Derived:      derived,
		GlobalStats:  globalStats(enriched),
		Segments:     Segments(enriched, cfg),
		Outliers:     DetectOutliers(enriched, cfg.OutlierMetrics),
		Correlations: Correlations(enriched),
		Models:       FitModels(enriched),
	}
	for f, c := range cm {
		a.Meta.ColumnMap[f] = c.Key
	}
	a.ChartsData = buildCharts(&buildContext{
		shots:  enriched,
		units:  units,
		corr:   a.Correlations,
		models: a.Models,
	}, cfg)
	if len(enriched) > 0 {
		a.Summary = summarize(enriched, a, cfg)
	}
	a.Insights = sessionInsights(a, cfg)
	return a
}

func warnings(cm ColumnMap, shots []NormalizedShot, dropped DroppedRows) []string {
	var out []string
	if _, ok := cm[FieldShotIndex]; !ok {
		out = append(out, "no shot index column found; using the shot_index key of each row")
	}
	if _, ok := cm[FieldCarry]; !ok {
		out = append(out, "no carry column found; distance charts and carry target are unavailable")
	}
	if dropped.Summary > 0 {
		out = append(out, fmt.Sprintf("%d summary rows dropped", dropped.Summary))
	}
	if dropped.Index > 0 {
		out = append(out, fmt.Sprintf("%d rows without a valid shot index dropped", dropped.Index))
	}
	unparsed := map[Field]int{}
	for _, s := range shots {
		for f := range s.Unparsed {
			unparsed[f]++
		}
	}
	for _, f := range NumericFields {
		if n := unparsed[f]; n > 0 {
			out = append(out, fmt.Sprintf("%s: %d non-numeric values ignored", f, n))
		}
	}
	return out
}

func summarize(shots []EnrichedShot, a *Analytics, cfg Config) *Summary {
	s := &Summary{ShotCount: len(shots), OutlierShotCount: len(a.Outliers.Flags)}
	s.CarryMean, s.CarryStd = meanStd(collect(shots, FieldCarry))
	lateral := collect(shots, FieldLateral)
	s.LateralMean, s.LateralStd = meanStd(lateral)
	s.SmashMean = meanOf(collect(shots, FieldSmash))
	s.LateralCorridorPct = corridorPct(lateral, cfg.LateralCorridor)
	s.DistanceCorridorPct = corridorPct(collect(shots, FieldDistanceFromTarget), cfg.DistanceCorridor)
	if len(lateral) > 0 {
		left := 0
		for _, v := range lateral {
			if v < 0 {
				left++
			}
		}
		lp := round(float64(left)/float64(len(lateral))*100, 1)
		s.LeftPct = ptr(lp)
		s.RightPct = ptr(round(100-lp, 1))
	}
	return s
}

// sessionInsights lists headline observations in a fixed order.
func sessionInsights(a *Analytics, cfg Config) []string {
	out := []string{}
	if a.Derived.CarryTarget != nil {
		out = append(out, fmt.Sprintf("Distance cible estimée : %.1f%s (%s des distances de vol).",
			*a.Derived.CarryTarget, unitSuffix(a.Meta.Units[FieldCarry]), methodLabel(a.Derived.CarryTargetMethod)))
	}
	if s := a.Summary; s != nil && s.LeftPct != nil {
		switch {
		case *s.LeftPct > 55:
			out = append(out, fmt.Sprintf("Tendance à manquer à gauche : %.0f %% des coups.", *s.LeftPct))
		case *s.RightPct > 55:
			out = append(out, fmt.Sprintf("Tendance à manquer à droite : %.0f %% des coups.", *s.RightPct))
		default:
			out = append(out, "Répartition gauche/droite équilibrée.")
		}
	}
	if s := a.Summary; s != nil && s.LateralCorridorPct != nil {
		out = append(out, fmt.Sprintf("%.1f %% des coups dans le couloir latéral de ±%g.", *s.LateralCorridorPct, cfg.LateralCorridor))
	}
	if s := a.Summary; s != nil && s.DistanceCorridorPct != nil {
		out = append(out, fmt.Sprintf("%.1f %% des coups à moins de %g de la distance cible.", *s.DistanceCorridorPct, cfg.DistanceCorridor))
	}
	if n := len(a.Outliers.Flags); n > 0 {
		out = append(out, fmt.Sprintf("%d coups atypiques détectés (méthode IQR).", n))
	}
	if m := bestModel(a.Models); m != nil {
		out = append(out, fmt.Sprintf("Le modèle %s explique %.0f %% de la variance (R² = %.2f, %d coups).",
			m.Name, clamp01(m.R2)*100, m.R2, m.N))
	}
	if a.Correlations != nil {
		if x, y, r, ok := a.Correlations.Strongest(); ok && r != 0 {
			out = append(out, fmt.Sprintf("Corrélation %s entre %s et %s (r = %.2f).",
				Strength(r), FieldLabel(x), FieldLabel(y), r))
		}
	}
	return out
}

func bestModel(m Models) *RegressionModel {
	switch {
	case m.Distance == nil:
		return m.Lateral
	case m.Lateral == nil:
		return m.Distance
	case m.Lateral.R2 > m.Distance.R2:
		return m.Lateral
	default:
		return m.Distance
	}
}

func methodLabel(method string) string {
	if method == TargetMedian {
		return "médiane"
	}
	return "moyenne"
}
