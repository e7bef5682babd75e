package analysis

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// 5L, 3.5R, 5,5L: left is negative, right is positive.
	directionalSuffix = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*([LlRr])$`)
	// L5, R3.5 as printed by some simulators.
	directionalPrefix = regexp.MustCompile(`^([LlRr])\s*(\d+(?:[.,]\d+)?)$`)
	notIndexChars     = regexp.MustCompile(`[^0-9-]`)
	notNumberChars    = regexp.MustCompile(`[^0-9.-]`)
	leadingInt        = regexp.MustCompile(`^-?\d+`)
)

type cellKind int

const (
	cellAbsent cellKind = iota
	cellNumber
	cellText
)

// NormalizeShots turns raw rows into parsed shots. Vendor summary rows (avg,
// dev) and rows without a positive shot index are dropped; every other row
// survives even when some of its cells do not parse.
func NormalizeShots(shots []Shot, cm ColumnMap) ([]NormalizedShot, DroppedRows) {
	var dropped DroppedRows
	out := make([]NormalizedShot, 0, len(shots))
	indexKey := string(FieldShotIndex)
	if c, ok := cm[FieldShotIndex]; ok {
		indexKey = c.Key
	}
	for _, row := range shots {
		rawIndex := cellString(row[indexKey])
		lower := strings.ToLower(rawIndex)
		if strings.Contains(lower, "avg") || strings.Contains(lower, "dev") {
			dropped.Summary++
			continue
		}
		idx, ok := parseShotIndex(rawIndex)
		if !ok {
			dropped.Index++
			continue
		}
		ns := NormalizedShot{
			Index:    idx,
			ShotType: shotType(row, cm),
			Values:   map[Field]float64{},
		}
		for _, f := range NumericFields {
			c, ok := cm[f]
			if !ok {
				continue
			}
			v, raw, kind := parseCell(row[c.Key])
			switch kind {
			case cellNumber:
				ns.Values[f] = v
			case cellText:
				if ns.Unparsed == nil {
					ns.Unparsed = map[Field]string{}
				}
				ns.Unparsed[f] = raw
			}
		}
		out = append(out, ns)
	}
	return out, dropped
}

// ParseNumber parses one cell the way NormalizeShots does and reports
// whether it produced a finite number.
func ParseNumber(v any) (float64, bool) {
	f, _, kind := parseCell(v)
	return f, kind == cellNumber
}

func parseShotIndex(raw string) (int, bool) {
	// "1-2" reads as 1: only the leading integer counts.
	digits := leadingInt.FindString(notIndexChars.ReplaceAllString(raw, ""))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func shotType(row Shot, cm ColumnMap) string {
	if v, ok := row[string(FieldShotType)]; ok {
		if s := strings.TrimSpace(cellString(v)); s != "" {
			return s
		}
	}
	if c, ok := cm[FieldShotType]; ok {
		return strings.TrimSpace(cellString(row[c.Key]))
	}
	return ""
}

func parseCell(v any) (float64, string, cellKind) {
	switch x := v.(type) {
	case nil:
		return 0, "", cellAbsent
	case float64:
		return finiteNumber(x)
	case float32:
		return finiteNumber(float64(x))
	case int:
		return float64(x), "", cellNumber
	case int64:
		return float64(x), "", cellNumber
	case int32:
		return float64(x), "", cellNumber
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, x.String(), cellText
		}
		return finiteNumber(f)
	case string:
		return parseText(x)
	default:
		return 0, "", cellAbsent
	}
}

func parseText(s string) (float64, string, cellKind) {
	raw := strings.TrimSpace(s)
	switch raw {
	case "", "-", "—", "–":
		return 0, "", cellAbsent
	}
	if m := directionalSuffix.FindStringSubmatch(raw); m != nil {
		return directional(m[1], m[2])
	}
	if m := directionalPrefix.FindStringSubmatch(raw); m != nil {
		return directional(m[2], m[1])
	}
	clean := notNumberChars.ReplaceAllString(strings.ReplaceAll(raw, ",", "."), "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, raw, cellText
	}
	return f, "", cellNumber
}

func directional(num, side string) (float64, string, cellKind) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil {
		return 0, num + side, cellText
	}
	if strings.EqualFold(side, "L") {
		f = -f
	}
	return f, "", cellNumber
}

func finiteNumber(f float64) (float64, string, cellKind) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", cellAbsent
	}
	return f, "", cellNumber
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
