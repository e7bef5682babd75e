package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapColumns(t *testing.T) {
	cols := []RadarColumn{
		{Key: "shot_no", Label: "Shot No"},
		{Key: "type", Label: "Shot Type"},
		{Key: "carry", Group: "Distance", Label: "Carry Distance", Unit: "m"},
		{Key: "side", Group: "Distance", Label: "Carry Side", Unit: "m"},
		{Key: "ball", Label: "Vitesse de la balle", Unit: "km/h"},
	}
	cm, units := MapColumns(cols)

	want := map[Field]string{
		FieldCarry:     "carry",
		FieldLateral:   "side",
		FieldBallSpeed: "ball",
		FieldShotIndex: "shot_no",
		FieldShotType:  "type",
	}
	got := map[Field]string{}
	for f, c := range cm {
		got[f] = c.Key
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("column map mismatch (-want +got):\n%s", diff)
	}
	if units[FieldCarry] != "m" || units[FieldBallSpeed] != "km/h" {
		t.Fatalf("units not copied from bound columns: %v", units)
	}
	if !units.Has(FieldShotType) {
		t.Fatalf("a bound field with an empty unit must still be present in units")
	}
	if units.Has(FieldTotal) {
		t.Fatalf("total should not be bound")
	}

	missing := MissingFields(cm)
	if len(missing) != len(Fields)-len(want) {
		t.Fatalf("missing = %d fields, want %d", len(missing), len(Fields)-len(want))
	}
	if missing[0] != FieldTotal {
		t.Fatalf("missing fields should follow enumeration order, got first %q", missing[0])
	}
}

func TestMapColumnsFirstColumnWins(t *testing.T) {
	cols := []RadarColumn{
		{Key: "carry_a", Label: "Carry"},
		{Key: "carry_b", Label: "Carry Distance"},
	}
	cm, _ := MapColumns(cols)
	if got := cm[FieldCarry].Key; got != "carry_a" {
		t.Fatalf("carry bound to %q, want the first matching column", got)
	}
}

func TestMapColumnsNotInjective(t *testing.T) {
	cm, _ := MapColumns([]RadarColumn{{Key: "ct", Label: "Carry / Total"}})
	if cm[FieldCarry].Key != "ct" || cm[FieldTotal].Key != "ct" {
		t.Fatalf("one column should satisfy both carry and total, got %v", cm)
	}
}

func TestMapColumnsFrenchDiacritics(t *testing.T) {
	cm, _ := MapColumns([]RadarColumn{
		{Key: "c1", Label: "Écart latéral"},
		{Key: "c2", Label: "Angle d'attaque"},
	})
	if cm[FieldLateral].Key != "c1" {
		t.Fatalf("lateral not bound: %v", cm)
	}
	if cm[FieldAOA].Key != "c2" {
		t.Fatalf("aoa not bound: %v", cm)
	}
}

func TestMapColumnsShotTypeBeforeIndex(t *testing.T) {
	cols := []RadarColumn{
		{Key: "shot_type", Label: "Shot Type"},
		{Key: "shot_index", Label: "Shot"},
		{Key: "carry", Label: "Carry", Unit: "m"},
	}
	cm, _ := MapColumns(cols)
	if got := cm[FieldShotIndex].Key; got != "shot_index" {
		t.Fatalf("shot_index bound to %q, want shot_index", got)
	}
	if got := cm[FieldShotType].Key; got != "shot_type" {
		t.Fatalf("shot_type bound to %q, want shot_type", got)
	}

	rows := make([]Shot, 10)
	for i := range rows {
		rows[i] = Shot{"shot_type": "Draw", "shot_index": i + 1, "carry": 150 + i}
	}
	a := ComputeAnalytics(cols, rows, DefaultConfig(), ClubBall{})
	if a.Meta.ShotCount != 10 || a.Meta.DroppedRows.Index != 0 {
		t.Fatalf("shots = %d, dropped = %+v; want all 10 kept", a.Meta.ShotCount, a.Meta.DroppedRows)
	}
}

func TestMapColumnsIndexLabels(t *testing.T) {
	cases := []struct {
		name string
		col  RadarColumn
		want bool
	}{
		{"bare shot label", RadarColumn{Key: "c0", Label: "Shot"}, true},
		{"bare no key", RadarColumn{Key: "no", Label: "#"}, true},
		{"shot number", RadarColumn{Key: "c0", Label: "Shot Number"}, true},
		{"shot shape", RadarColumn{Key: "c0", Label: "Shot Shape"}, false},
		{"club no", RadarColumn{Key: "c0", Label: "Club No"}, false},
	}
	for _, c := range cases {
		cm, _ := MapColumns([]RadarColumn{c.col})
		if _, ok := cm[FieldShotIndex]; ok != c.want {
			t.Errorf("%s: shot_index bound = %v, want %v", c.name, ok, c.want)
		}
	}
}

func TestMapColumnsSpin(t *testing.T) {
	cases := []struct {
		name string
		cols []RadarColumn
		want string
	}{
		{"plain spin", []RadarColumn{{Key: "spin", Label: "Spin", Unit: "rpm"}}, "spin"},
		{"back spin", []RadarColumn{{Key: "c1", Label: "Back Spin"}}, "c1"},
		{"axis first", []RadarColumn{{Key: "axis", Label: "Spin Axis"}, {Key: "spin", Label: "Spin"}}, "spin"},
		{"loft first", []RadarColumn{{Key: "loft", Label: "Spin Loft"}, {Key: "spin", Label: "Spin"}}, "spin"},
		{"side spin only", []RadarColumn{{Key: "ss", Label: "Side Spin"}}, ""},
	}
	for _, c := range cases {
		cm, _ := MapColumns(c.cols)
		if got := cm[FieldSpinRPM].Key; got != c.want {
			t.Errorf("%s: spin_rpm bound to %q, want %q", c.name, got, c.want)
		}
	}

	cm, _ := MapColumns([]RadarColumn{{Key: "axis", Label: "Spin Axis"}, {Key: "ss", Label: "Side Spin"}})
	if cm[FieldSpinAxis].Key != "axis" {
		t.Fatalf("spin axis not bound: %v", cm)
	}
	if _, ok := cm[FieldLateral]; ok {
		t.Fatalf("side spin must not bind lateral: %v", cm)
	}
}

func TestMapColumnsGluedHeaders(t *testing.T) {
	cm, _ := MapColumns([]RadarColumn{
		{Key: "SmashFactor", Label: "SmashFactor"},
		{Key: "CarryDistance", Label: "CarryDistance", Unit: "yds"},
		{Key: "ImpactHeight", Label: "ImpactHeight"},
	})
	if cm[FieldSmash].Key != "SmashFactor" {
		t.Fatalf("smash not bound: %v", cm)
	}
	if cm[FieldCarry].Key != "CarryDistance" {
		t.Fatalf("carry not bound: %v", cm)
	}
	if cm[FieldImpactVert].Key != "ImpactHeight" {
		t.Fatalf("impact vertical not bound: %v", cm)
	}
	if _, ok := cm[FieldImpactLat]; ok {
		t.Fatalf("a single-letter alias must not match glued text: %v", cm)
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Écart  Latéral (m)", "ecart lateral m"},
		{"Face-to-Path", "face to path"},
		{"  ", ""},
		{"Vitesse_Balle[km/h]", "vitesse balle km h"},
	}
	for _, c := range cases {
		if got := normalizeLabel(c.in); got != c.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
