package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ChartType tags the payload variant of a chart.
type ChartType string

const (
	ChartScatter ChartType = "scatter"
	ChartLine    ChartType = "line"
	ChartHist    ChartType = "hist"
	ChartTable   ChartType = "table"
	ChartMatrix  ChartType = "matrix"
	ChartModel   ChartType = "model"
)

// histBins is the fixed number of histogram classes.
const histBins = 10

// Payload is the data of one chart. The set of implementations is closed:
// *ScatterPayload, *LinePayload, *HistPayload, *TablePayload,
// *MatrixPayload and *ModelPayload.
type Payload interface {
	Kind() ChartType
	sealed()
}

// Axis describes one plotted metric.
type Axis struct {
	Field Field  `json:"field"`
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
}

// Point is a scatter point tagged with its shot.
type Point struct {
	Shot int     `json:"shot"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ScatterPayload struct {
	X      Axis    `json:"x"`
	Y      Axis    `json:"y"`
	Points []Point `json:"points"`
}

// SeriesPoint is one value of a line, at a shot index.
type SeriesPoint struct {
	Shot  int     `json:"shot"`
	Value float64 `json:"value"`
}

type LinePayload struct {
	Y      Axis          `json:"y"`
	Series []SeriesPoint `json:"series"`
}

// HistBin is one equal-width class [Start, End).
type HistBin struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

type HistPayload struct {
	X     Axis      `json:"x"`
	Bins  []HistBin `json:"bins"`
	Total int       `json:"total"`
}

// TableRow holds one group; Cells align with TablePayload.Columns and may be
// nil.
type TableRow struct {
	Key   string     `json:"key"`
	Cells []*float64 `json:"cells"`
}

type TablePayload struct {
	Metric  Axis       `json:"metric"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

type MatrixPayload struct {
	Variables []Field     `json:"variables"`
	Matrix    [][]float64 `json:"matrix"`
}

type ModelPayload struct {
	Model *RegressionModel `json:"model"`
}

func (*ScatterPayload) Kind() ChartType { return ChartScatter }
func (*LinePayload) Kind() ChartType    { return ChartLine }
func (*HistPayload) Kind() ChartType    { return ChartHist }
func (*TablePayload) Kind() ChartType   { return ChartTable }
func (*MatrixPayload) Kind() ChartType  { return ChartMatrix }
func (*ModelPayload) Kind() ChartType   { return ChartModel }

func (*ScatterPayload) sealed() {}
func (*LinePayload) sealed()    {}
func (*HistPayload) sealed()    {}
func (*TablePayload) sealed()   {}
func (*MatrixPayload) sealed()  {}
func (*ModelPayload) sealed()   {}

// ChartEntry is one chart of the artifact.
type ChartEntry struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Group     string    `json:"group"`
	Type      ChartType `json:"type"`
	Required  []Field   `json:"required"`
	Enabled   bool      `json:"enabled"`
	Available bool      `json:"available"`
	Insight   string    `json:"insight,omitempty"`
	Score     *float64  `json:"score,omitempty"`
	Payload   Payload   `json:"payload,omitempty"`
}

// UnmarshalJSON decodes the payload variant named by the type field.
func (e *ChartEntry) UnmarshalJSON(data []byte) error {
	type plain ChartEntry
	var raw struct {
		plain
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ChartEntry(raw.plain)
	e.Payload = nil
	if len(raw.Payload) == 0 || string(raw.Payload) == "null" {
		return nil
	}
	var p Payload
	switch e.Type {
	case ChartScatter:
		p = &ScatterPayload{}
	case ChartLine:
		p = &LinePayload{}
	case ChartHist:
		p = &HistPayload{}
	case ChartTable:
		p = &TablePayload{}
	case ChartMatrix:
		p = &MatrixPayload{}
	case ChartModel:
		p = &ModelPayload{}
	default:
		return fmt.Errorf("chart %q: unknown type %q", e.Key, e.Type)
	}
	if err := json.Unmarshal(raw.Payload, p); err != nil {
		return fmt.Errorf("chart %q: decode payload: %w", e.Key, err)
	}
	e.Payload = p
	return nil
}

// hasContent reports whether a payload has anything to draw.
func hasContent(p Payload) bool {
	switch v := p.(type) {
	case *ScatterPayload:
		return len(v.Points) > 0
	case *LinePayload:
		return len(v.Series) > 0
	case *HistPayload:
		return len(v.Bins) > 0
	case *TablePayload:
		return len(v.Rows) > 0
	case *MatrixPayload:
		return len(v.Variables) > 0
	case *ModelPayload:
		return v.Model != nil && v.Model.N > 0
	default:
		return false
	}
}

func buildScatter(shots []EnrichedShot, units Units, x, y Field) *ScatterPayload {
	p := &ScatterPayload{X: axis(x, units), Y: axis(y, units), Points: []Point{}}
	for i := range shots {
		vx, okx := shots[i].Get(x)
		vy, oky := shots[i].Get(y)
		if okx && oky {
			p.Points = append(p.Points, Point{Shot: shots[i].Index, X: vx, Y: vy})
		}
	}
	return p
}

func buildLine(shots []EnrichedShot, units Units, f Field) *LinePayload {
	p := &LinePayload{Y: axis(f, units), Series: []SeriesPoint{}}
	for i := range shots {
		if v, ok := shots[i].Get(f); ok {
			p.Series = append(p.Series, SeriesPoint{Shot: shots[i].Index, Value: v})
		}
	}
	return p
}

func buildHist(shots []EnrichedShot, units Units, f Field) *HistPayload {
	values := collect(shots, f)
	p := &HistPayload{X: axis(f, units), Bins: []HistBin{}, Total: len(values)}
	if len(values) == 0 {
		return p
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / histBins
	p.Bins = make([]HistBin, histBins)
	for i := range p.Bins {
		start := lo + float64(i)*width
		end := start + width
		p.Bins[i] = HistBin{Label: fmt.Sprintf("%.1f à %.1f", start, end), Start: start, End: end}
	}
	for _, v := range values {
		idx := 0
		if width > 0 {
			idx = int(math.Floor((v - lo) / width))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= histBins {
			idx = histBins - 1
		}
		p.Bins[idx].Count++
	}
	return p
}

var tableColumns = []string{"count", "min", "median", "max"}

// buildTable groups the values of f by key and reports count, min, median and
// max per group in first-seen order.
func buildTable(shots []EnrichedShot, units Units, f Field, key func(*EnrichedShot) string) *TablePayload {
	p := &TablePayload{Metric: axis(f, units), Columns: tableColumns, Rows: []TableRow{}}
	var order []string
	groups := map[string][]float64{}
	for i := range shots {
		k := key(&shots[i])
		if k == "" {
			continue
		}
		v, ok := shots[i].Get(f)
		if !ok {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], v)
	}
	for _, k := range order {
		values := groups[k]
		lo, hi := values[0], values[0]
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		var med *float64
		if m, err := stats.Median(values); err == nil {
			med = ptr(m)
		}
		p.Rows = append(p.Rows, TableRow{
			Key:   k,
			Cells: []*float64{ptr(float64(len(values))), ptr(lo), med, ptr(hi)},
		})
	}
	return p
}

func buildMatrix(m *CorrelationMatrix) *MatrixPayload {
	if m == nil {
		return &MatrixPayload{Variables: []Field{}, Matrix: [][]float64{}}
	}
	return &MatrixPayload{Variables: m.Variables, Matrix: m.Matrix}
}

func axis(f Field, units Units) Axis {
	return Axis{Field: f, Label: FieldLabel(f), Unit: units[unitSource(f)]}
}

// unitSource maps derived fields to the column whose unit they inherit.
func unitSource(f Field) Field {
	switch f {
	case FieldDistanceFromTarget, FieldRadialMiss:
		return FieldCarry
	case FieldAbsFTP:
		return FieldFTP
	case FieldStrikeScore:
		return FieldSmash
	}
	return f
}

var fieldLabels = map[Field]string{
	FieldCarry:              "Distance de vol",
	FieldTotal:              "Distance totale",
	FieldRoll:               "Roule",
	FieldLateral:            "Écart latéral",
	FieldCurve:              "Courbe",
	FieldClubSpeed:          "Vitesse de club",
	FieldBallSpeed:          "Vitesse de balle",
	FieldSpinRPM:            "Spin",
	FieldSpinAxis:           "Axe de spin",
	FieldSpinLoft:           "Spin loft",
	FieldSmash:              "Smash factor",
	FieldLaunchV:            "Angle de départ vertical",
	FieldLaunchH:            "Angle de départ horizontal",
	FieldDescentV:           "Angle de descente",
	FieldHeight:             "Hauteur max",
	FieldTime:               "Temps de vol",
	FieldPath:               "Chemin de club",
	FieldFTP:                "Face au chemin",
	FieldFTT:                "Face à la cible",
	FieldDLoft:              "Loft dynamique",
	FieldAOA:                "Angle d'attaque",
	FieldLowPoint:           "Point bas",
	FieldSwingPlaneV:        "Plan de swing vertical",
	FieldSwingPlaneH:        "Plan de swing horizontal",
	FieldImpactLat:          "Impact latéral",
	FieldImpactVert:         "Impact vertical",
	FieldShotIndex:          "Coup",
	FieldShotType:           "Type de coup",
	FieldDistanceFromTarget: "Écart à la distance cible",
	FieldRadialMiss:         "Écart radial",
	FieldStrikeScore:        "Qualité de frappe",
	FieldAbsFTP:             "|Face au chemin|",
}

// FieldLabel returns the display label of a field.
func FieldLabel(f Field) string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}
