package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldAliases lists, per canonical field, the normalized phrases that
// identify a column, most specific first. English and French vendor
// wordings are both covered.
var fieldAliases = map[Field][]string{
	FieldCarry:       {"carry distance", "carry dist", "distance de vol", "portee", "carry"},
	FieldTotal:       {"total distance", "total dist", "distance totale", "total"},
	FieldRoll:        {"roll distance", "roulement", "roule", "roll"},
	FieldLateral:     {"carry side", "side carry", "ecart lateral", "offline", "lateral", "deviation", "side"},
	FieldCurve:       {"curve", "courbure", "courbe"},
	FieldClubSpeed:   {"club head speed", "clubhead speed", "club speed", "vitesse du club", "vitesse de club", "vitesse club"},
	FieldBallSpeed:   {"ball speed", "vitesse de la balle", "vitesse de balle", "vitesse balle"},
	FieldSpinRPM:     {"spin rate", "total spin", "spin rpm", "back spin", "backspin", "rotation", "effet", "spin"},
	FieldSpinAxis:    {"spin axis", "spin tilt", "axe de rotation", "axe de spin", "axe spin"},
	FieldSpinLoft:    {"spin loft"},
	FieldSmash:       {"smash factor", "facteur smash", "smash"},
	FieldLaunchV:     {"vertical launch", "launch angle", "launch v", "angle de depart vertical", "angle de lancement", "vla"},
	FieldLaunchH:     {"horizontal launch", "launch direction", "launch h", "angle de depart horizontal", "direction de depart", "hla"},
	FieldDescentV:    {"descent angle", "landing angle", "land angle", "angle de descente", "angle d atterrissage"},
	FieldHeight:      {"max height", "peak height", "hauteur maximale", "hauteur max", "apex", "height"},
	FieldTime:        {"hang time", "flight time", "air time", "temps de vol"},
	FieldPath:        {"club path", "swing path", "chemin du club", "trajectoire club", "path"},
	FieldFTP:         {"face to path", "face au chemin", "face path", "ftp"},
	FieldFTT:         {"face to target", "face angle", "angle de face", "ftt"},
	FieldDLoft:       {"dynamic loft", "loft dynamique", "dyn loft", "dloft"},
	FieldAOA:         {"angle of attack", "attack angle", "angle d attaque", "aoa"},
	FieldLowPoint:    {"low point", "lowpoint", "point bas"},
	FieldSwingPlaneV: {"swing plane vertical", "vertical swing plane", "swing plane v", "plan vertical"},
	FieldSwingPlaneH: {"swing plane horizontal", "horizontal swing plane", "swing plane h", "plan horizontal"},
	FieldImpactLat:   {"impact offset", "face impact horizontal", "impact horizontal", "impact lateral", "impact lat", "impact h"},
	FieldImpactVert:  {"impact height", "face impact vertical", "impact vertical", "hauteur d impact", "impact vert", "impact v"},
	FieldShotIndex:   {"shot index", "shot number", "shot no", "shot nr", "shot id", "numero de coup", "n coup", "index"},
	FieldShotType:    {"shot type", "type de coup", "shot tag", "type", "tag"},
}

// aliasGuards stops a generic alias from matching a column that also names
// a neighbouring measurement, e.g. "spin" against "Spin Axis".
var aliasGuards = map[string][]string{
	"spin": {"axis", "loft", "tilt", "side"},
	"side": {"spin"},
}

// labelAliases only match when a column's whole key or label is the phrase.
// They are too short to be searched for inside longer headers.
var labelAliases = map[Field][]string{
	FieldShotIndex: {"shot", "no", "nr", "num", "number", "coup"},
}

// column is the normalized text a column is matched on.
type column struct {
	text    string // " key group label ", token-delimited
	compact string // the same text without separators
	parts   []string
}

func newColumn(c RadarColumn) column {
	text := normalizeLabel(c.Key + " " + c.Group + " " + c.Label)
	return column{
		text:    " " + text + " ",
		compact: strings.ReplaceAll(text, " ", ""),
		parts:   []string{normalizeLabel(c.Key), normalizeLabel(c.Label)},
	}
}

func (c column) matches(alias string) bool {
	if strings.Contains(c.text, " "+alias+" ") {
		for _, g := range aliasGuards[alias] {
			if strings.Contains(c.text, " "+g+" ") {
				return false
			}
		}
		return true
	}
	// Glued headers such as "SmashFactor" normalize to one token.
	return gluable(alias) && strings.Contains(c.compact, strings.ReplaceAll(alias, " ", ""))
}

// gluable reports whether alias has several words none of which is a single
// letter; shorter forms like "impact h" would collide once glued.
func gluable(alias string) bool {
	words := strings.Fields(alias)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 {
			return false
		}
	}
	return true
}

func (c column) isLabel(alias string) bool {
	for _, p := range c.parts {
		if p == alias {
			return true
		}
	}
	return false
}

// MapColumns binds each canonical field to the first column (in input order)
// whose normalized key, group and label contain one of the field's aliases.
// Fields are resolved independently, so one column may satisfy several.
func MapColumns(columns []RadarColumn) (ColumnMap, Units) {
	normalized := make([]column, len(columns))
	for i, c := range columns {
		normalized[i] = newColumn(c)
	}
	cm := ColumnMap{}
	units := Units{}
	for _, f := range Fields {
	scan:
		for i, c := range columns {
			for _, a := range fieldAliases[f] {
				if normalized[i].matches(a) {
					cm[f] = c
					units[f] = c.Unit
					break scan
				}
			}
			for _, a := range labelAliases[f] {
				if normalized[i].isLabel(a) {
					cm[f] = c
					units[f] = c.Unit
					break scan
				}
			}
		}
	}
	return cm, units
}

// MissingFields returns the canonical fields with no bound column, in
// enumeration order.
func MissingFields(cm ColumnMap) []Field {
	out := []Field{}
	for _, f := range Fields {
		if _, ok := cm[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// normalizeLabel lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters into a single space.
func normalizeLabel(s string) string {
	// A Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
