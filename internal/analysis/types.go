package analysis

// Version stamps every artifact; consumers must check it before reading.
const Version = "radar-analytics-v1"

// Field is a canonical, vendor-independent shot metric name.
type Field string

const (
	FieldCarry       Field = "carry"
	FieldTotal       Field = "total"
	FieldRoll        Field = "roll"
	FieldLateral     Field = "lateral"
	FieldCurve       Field = "curve"
	FieldClubSpeed   Field = "club_speed"
	FieldBallSpeed   Field = "ball_speed"
	FieldSpinRPM     Field = "spin_rpm"
	FieldSpinAxis    Field = "spin_axis"
	FieldSpinLoft    Field = "spin_loft"
	FieldSmash       Field = "smash"
	FieldLaunchV     Field = "launch_v"
	FieldLaunchH     Field = "launch_h"
	FieldDescentV    Field = "descent_v"
	FieldHeight      Field = "height"
	FieldTime        Field = "time"
	FieldPath        Field = "path"
	FieldFTP         Field = "ftp"
	FieldFTT         Field = "ftt"
	FieldDLoft       Field = "dloft"
	FieldAOA         Field = "aoa"
	FieldLowPoint    Field = "low_point"
	FieldSwingPlaneV Field = "swing_plane_v"
	FieldSwingPlaneH Field = "swing_plane_h"
	FieldImpactLat   Field = "impact_lat"
	FieldImpactVert  Field = "impact_vert"
	FieldShotIndex   Field = "shot_index"
	FieldShotType    Field = "shot_type"
)

// Derived per-shot metrics. They never come from a column.
const (
	FieldDistanceFromTarget Field = "distance_from_target"
	FieldRadialMiss         Field = "radial_miss"
	FieldStrikeScore        Field = "strike_score"
	FieldAbsFTP             Field = "abs_ftp"
)

// Fields lists every canonical field in enumeration order. The mapper and
// meta.missingColumns both follow this order.
var Fields = []Field{
	FieldCarry, FieldTotal, FieldRoll, FieldLateral, FieldCurve,
	FieldClubSpeed, FieldBallSpeed, FieldSpinRPM, FieldSpinAxis, FieldSpinLoft,
	FieldSmash, FieldLaunchV, FieldLaunchH, FieldDescentV, FieldHeight,
	FieldTime, FieldPath, FieldFTP, FieldFTT, FieldDLoft, FieldAOA,
	FieldLowPoint, FieldSwingPlaneV, FieldSwingPlaneH, FieldImpactLat,
	FieldImpactVert, FieldShotIndex, FieldShotType,
}

// NumericFields are the canonical fields carrying a number per shot.
var NumericFields = func() []Field {
	out := make([]Field, 0, len(Fields))
	for _, f := range Fields {
		if f == FieldShotIndex || f == FieldShotType {
			continue
		}
		out = append(out, f)
	}
	return out
}()

// RadarColumn describes one source-table column.
type RadarColumn struct {
	Key   string `json:"key"`
	Group string `json:"group,omitempty"`
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
}

// Shot is one raw row: cell values keyed by column key. Values are whatever
// the upstream parser produced (string, float64, int, nil).
type Shot map[string]any

// ColumnMap binds canonical fields to source columns. Several fields may be
// bound to the same column.
type ColumnMap map[Field]RadarColumn

// Units maps each bound field to the unit of its column (possibly empty).
// A key being present means the field is bound.
type Units map[Field]string

// Has reports whether every field is bound.
func (u Units) Has(fields ...Field) bool {
	for _, f := range fields {
		if _, ok := u[f]; !ok {
			return false
		}
	}
	return true
}

// NormalizedShot is a parsed row. It is not modified after construction.
type NormalizedShot struct {
	Index    int
	ShotType string
	Values   map[Field]float64
	// Unparsed keeps cells that did not parse as numbers; they take no part
	// in any aggregation.
	Unparsed map[Field]string
}

// Value returns the numeric value of f and whether it is present.
func (s NormalizedShot) Value(f Field) (float64, bool) {
	v, ok := s.Values[f]
	return v, ok
}

// EnrichedShot is a NormalizedShot plus derived metrics. It only lives for
// the duration of one ComputeAnalytics call.
type EnrichedShot struct {
	NormalizedShot
	Derived       map[Field]float64
	SmashBin      string
	BallSpeedBin  string
	LaunchVBin    string
	AbsFTPBin     string
	ImpactZone    string
	LeftRight     string
	PeriodTertile string
}

// Get returns a canonical or derived value.
func (s *EnrichedShot) Get(f Field) (float64, bool) {
	if v, ok := s.Values[f]; ok {
		return v, true
	}
	v, ok := s.Derived[f]
	return v, ok
}

// SummaryStat describes one metric across all shots. Every pointer is nil
// when Count is zero.
type SummaryStat struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	CV     *float64 `json:"cv"`
	Median *float64 `json:"median"`
	P10    *float64 `json:"p10"`
	P90    *float64 `json:"p90"`
}

// ClubBall is optional caller metadata about the session equipment.
type ClubBall struct {
	Club string `json:"club,omitempty"`
	Ball string `json:"ball,omitempty"`
}

// DroppedRows counts rows removed by the shot normalizer.
type DroppedRows struct {
	Summary int `json:"summary"`
	Index   int `json:"index"`
}

// Meta describes the input and how it was bound.
type Meta struct {
	ShotCount      int              `json:"shotCount"`
	RawRowCount    int              `json:"rawRowCount"`
	DroppedRows    DroppedRows      `json:"droppedRows"`
	ColumnMap      map[Field]string `json:"columnMap"`
	Units          Units            `json:"units"`
	MissingColumns []Field          `json:"missingColumns"`
	Club           string           `json:"club,omitempty"`
	Ball           string           `json:"ball,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
}

// Derived holds session-level derived values.
type Derived struct {
	CarryTarget       *float64              `json:"carryTarget"`
	CarryTargetMethod string                `json:"carryTargetMethod,omitempty"`
	CarryOutlierRatio *float64              `json:"carryOutlierRatio"`
	BinCuts           map[string][2]float64 `json:"binCuts"`
	ImpactHalfWidth   float64               `json:"impactHalfWidth"`
	Thresholds        map[string]float64    `json:"thresholds"`
}

// Summary is a compact headline view of the session.
type Summary struct {
	ShotCount           int      `json:"shotCount"`
	CarryMean           *float64 `json:"carryMean"`
	CarryStd            *float64 `json:"carryStd"`
	LateralMean         *float64 `json:"lateralMean"`
	LateralStd          *float64 `json:"lateralStd"`
	SmashMean           *float64 `json:"smashMean"`
	LateralCorridorPct  *float64 `json:"lateralCorridorPct"`
	DistanceCorridorPct *float64 `json:"distanceCorridorPct"`
	LeftPct             *float64 `json:"leftPct"`
	RightPct            *float64 `json:"rightPct"`
	OutlierShotCount    int      `json:"outlierShotCount"`
}

// Analytics is the root artifact. It is built fresh per run and read-only
// afterwards.
type Analytics struct {
	Version      string                 `json:"version"`
	Meta         Meta                   `json:"meta"`
	Derived      Derived                `json:"derived"`
	GlobalStats  map[Field]SummaryStat  `json:"globalStats"`
	Segments     map[string]Segment     `json:"segments"`
	Outliers     OutlierResult          `json:"outliers"`
	Correlations *CorrelationMatrix     `json:"correlations,omitempty"`
	Models       Models                 `json:"models"`
	ChartsData   map[string]*ChartEntry `json:"chartsData"`
	Summary      *Summary               `json:"summary,omitempty"`
	Insights     []string               `json:"insights"`
}

// Models holds the two standing regression models; either may be nil when
// the sample is too small.
type Models struct {
	Distance *RegressionModel `json:"distance,omitempty"`
	Lateral  *RegressionModel `json:"lateral,omitempty"`
}

func ptr(v float64) *float64 { return &v }
