package analysis

import "fmt"

// Chart groups.
const (
	GroupDispersion  = "dispersion"
	GroupDistance    = "distance"
	GroupVitesse     = "vitesse"
	GroupContact     = "contact"
	GroupTrajectoire = "trajectoire"
	GroupSwing       = "swing"
	GroupRegularite  = "regularite"
	GroupAnalyse     = "analyse"
)

// buildContext is what a chart builder may read.
type buildContext struct {
	shots  []EnrichedShot
	units  Units
	corr   *CorrelationMatrix
	models Models
}

// ChartDef is a static chart definition. Build returns the payload and,
// optionally, an insight of its own.
type ChartDef struct {
	Key      string
	Title    string
	Group    string
	Type     ChartType
	Required []Field
	build    func(*buildContext) (Payload, string)
}

func scatterDef(key, title, group string, x, y Field, required ...Field) ChartDef {
	if len(required) == 0 {
		required = []Field{x, y}
	}
	return ChartDef{Key: key, Title: title, Group: group, Type: ChartScatter, Required: required,
		build: func(c *buildContext) (Payload, string) { return buildScatter(c.shots, c.units, x, y), "" }}
}

func lineDef(key, title, group string, f Field) ChartDef {
	return ChartDef{Key: key, Title: title, Group: group, Type: ChartLine, Required: []Field{f},
		build: func(c *buildContext) (Payload, string) { return buildLine(c.shots, c.units, f), "" }}
}

func histDef(key, title, group string, f Field, required ...Field) ChartDef {
	if len(required) == 0 {
		required = []Field{f}
	}
	return ChartDef{Key: key, Title: title, Group: group, Type: ChartHist, Required: required,
		build: func(c *buildContext) (Payload, string) { return buildHist(c.shots, c.units, f), "" }}
}

func tableDef(key, title, group string, f Field, by func(*EnrichedShot) string, required ...Field) ChartDef {
	return ChartDef{Key: key, Title: title, Group: group, Type: ChartTable, Required: required,
		build: func(c *buildContext) (Payload, string) { return buildTable(c.shots, c.units, f, by), "" }}
}

func modelDef(key, title string, pick func(Models) *RegressionModel) ChartDef {
	return ChartDef{Key: key, Title: title, Group: GroupAnalyse, Type: ChartModel,
		build: func(c *buildContext) (Payload, string) { return &ModelPayload{Model: pick(c.models)}, "" }}
}

// Registry lists every advanced chart in declaration order. Selection
// tie-breaks follow this order.
var Registry = []ChartDef{
	scatterDef("dispersion_scatter", "Dispersion des impacts", GroupDispersion, FieldLateral, FieldCarry),
	scatterDef("dispersion_target", "Dispersion autour de la cible", GroupDispersion, FieldLateral, FieldDistanceFromTarget, FieldCarry, FieldLateral),
	histDef("radial_miss_hist", "Répartition de l'écart radial", GroupDispersion, FieldRadialMiss, FieldCarry, FieldLateral),
	histDef("lateral_hist", "Répartition de l'écart latéral", GroupDispersion, FieldLateral),
	lineDef("lateral_by_shot", "Écart latéral coup par coup", GroupDispersion, FieldLateral),
	{
		Key: "left_right_table", Title: "Gauche / droite", Group: GroupDispersion, Type: ChartTable,
		Required: []Field{FieldLateral}, build: buildLeftRight,
	},

	histDef("carry_hist", "Répartition des distances de vol", GroupDistance, FieldCarry),
	histDef("total_hist", "Répartition des distances totales", GroupDistance, FieldTotal),
	lineDef("carry_by_shot", "Distance de vol coup par coup", GroupDistance, FieldCarry),
	scatterDef("carry_vs_ball_speed", "Distance de vol selon la vitesse de balle", GroupDistance, FieldBallSpeed, FieldCarry),
	scatterDef("carry_vs_launch_v", "Distance de vol selon l'angle de départ", GroupDistance, FieldLaunchV, FieldCarry),
	scatterDef("carry_vs_spin", "Distance de vol selon le spin", GroupDistance, FieldSpinRPM, FieldCarry),
	histDef("distance_from_target_hist", "Écart à la distance cible", GroupDistance, FieldDistanceFromTarget, FieldCarry),
	tableDef("carry_by_shot_type", "Distance de vol par type de coup", GroupDistance, FieldCarry,
		func(s *EnrichedShot) string { return s.ShotType }, FieldCarry),

	lineDef("ball_speed_by_shot", "Vitesse de balle coup par coup", GroupVitesse, FieldBallSpeed),
	lineDef("club_speed_by_shot", "Vitesse de club coup par coup", GroupVitesse, FieldClubSpeed),
	scatterDef("ball_vs_club_speed", "Vitesse de balle selon la vitesse de club", GroupVitesse, FieldClubSpeed, FieldBallSpeed),
	histDef("smash_hist", "Répartition du smash factor", GroupVitesse, FieldSmash),
	lineDef("smash_by_shot", "Smash factor coup par coup", GroupVitesse, FieldSmash),
	scatterDef("smash_vs_carry", "Distance de vol selon le smash factor", GroupVitesse, FieldSmash, FieldCarry),

	scatterDef("impact_scatter", "Points d'impact sur la face", GroupContact, FieldImpactLat, FieldImpactVert),
	tableDef("impact_zone_table", "Qualité de frappe par zone d'impact", GroupContact, FieldStrikeScore,
		func(s *EnrichedShot) string { return s.ImpactZone }, FieldImpactLat, FieldImpactVert),

	histDef("launch_v_hist", "Répartition de l'angle de départ", GroupTrajectoire, FieldLaunchV),
	scatterDef("launch_v_vs_spin", "Spin selon l'angle de départ", GroupTrajectoire, FieldLaunchV, FieldSpinRPM),
	scatterDef("height_vs_carry", "Hauteur selon la distance de vol", GroupTrajectoire, FieldCarry, FieldHeight),
	histDef("descent_hist", "Répartition de l'angle de descente", GroupTrajectoire, FieldDescentV),
	scatterDef("spin_axis_vs_lateral", "Écart latéral selon l'axe de spin", GroupTrajectoire, FieldSpinAxis, FieldLateral),
	scatterDef("launch_h_vs_lateral", "Écart latéral selon la direction de départ", GroupTrajectoire, FieldLaunchH, FieldLateral),
	histDef("spin_hist", "Répartition du spin", GroupTrajectoire, FieldSpinRPM),

	scatterDef("path_vs_ftp", "Face au chemin selon le chemin de club", GroupSwing, FieldPath, FieldFTP),
	scatterDef("ftp_vs_lateral", "Écart latéral selon la face au chemin", GroupSwing, FieldFTP, FieldLateral),
	scatterDef("aoa_vs_launch_v", "Angle de départ selon l'angle d'attaque", GroupSwing, FieldAOA, FieldLaunchV),
	scatterDef("dloft_vs_launch_v", "Angle de départ selon le loft dynamique", GroupSwing, FieldDLoft, FieldLaunchV),
	histDef("low_point_hist", "Répartition du point bas", GroupSwing, FieldLowPoint),

	tableDef("period_table", "Distance de vol par période de séance", GroupRegularite, FieldCarry,
		func(s *EnrichedShot) string { return s.PeriodTertile }, FieldCarry),

	{
		Key: "correlation_matrix", Title: "Matrice de corrélation", Group: GroupAnalyse, Type: ChartMatrix,
		build: func(c *buildContext) (Payload, string) { return buildMatrix(c.corr), "" },
	},
	modelDef("model_distance", "Modèle de distance", func(m Models) *RegressionModel { return m.Distance }),
	modelDef("model_lateral", "Modèle d'écart latéral", func(m Models) *RegressionModel { return m.Lateral }),
}

// LookupChart returns the definition of key.
func LookupChart(key string) (ChartDef, bool) {
	for _, d := range Registry {
		if d.Key == key {
			return d, true
		}
	}
	return ChartDef{}, false
}

// buildCharts builds every registry entry. A chart whose required fields are
// not all bound is unavailable and gets no payload.
func buildCharts(c *buildContext, cfg Config) map[string]*ChartEntry {
	out := make(map[string]*ChartEntry, len(Registry))
	for _, d := range Registry {
		e := &ChartEntry{
			Key:      d.Key,
			Title:    d.Title,
			Group:    d.Group,
			Type:     d.Type,
			Required: append([]Field{}, d.Required...),
			Enabled:  cfg.ChartEnabled(d.Key),
		}
		out[d.Key] = e
		if !c.units.Has(d.Required...) {
			continue
		}
		p, insight := d.build(c)
		e.Payload = p
		e.Available = hasContent(p)
		if !e.Available {
			continue
		}
		if insight == "" {
			insight = Insight(p)
		}
		e.Insight = insight
		e.Score = ptr(PayloadScore(p))
	}
	return out
}

func buildLeftRight(c *buildContext) (Payload, string) {
	p := buildTable(c.shots, c.units, FieldLateral, func(s *EnrichedShot) string { return s.LeftRight })
	left, right := 0, 0
	for i := range c.shots {
		switch c.shots[i].LeftRight {
		case "L":
			left++
		case "R":
			right++
		}
	}
	n := left + right
	if n == 0 {
		return p, ""
	}
	lp := float64(left) / float64(n) * 100
	return p, fmt.Sprintf("%.0f %% des coups finissent à gauche et %.0f %% à droite.", lp, 100-lp)
}
