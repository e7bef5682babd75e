// Package ingest reads launch-monitor exports into the column/shot table the
// analytics engine consumes.
package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// Options controls how a file is turned into a table.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// SheetName selects an XLSX sheet; when empty SheetIndex (1-based) is
	// used, defaulting to the first sheet.
	SheetName  string
	SheetIndex int
	// GroupRow treats the first row as a group header above the labels.
	// Blank group cells inherit the group on their left.
	GroupRow bool
	// MaxRows limits the shots read; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns reasonable defaults for launch-monitor exports.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Table is a loaded session, ready for analysis.ComputeAnalytics.
type Table struct {
	Name     string
	Columns  []analysis.RadarColumn
	Shots    []analysis.Shot
	Warnings []string
}

// FormatError reports a file the loader cannot read.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", filepath.Base(e.Path), e.Reason)
}

type loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []loader

func register(l loader) {
	registry = append(registry, l)
}

func init() {
	register(csvLoader{})
	register(xlsxLoader{})
	register(jsonLoader{})
}

// LoadFile selects a loader by extension and reads path.
func LoadFile(path string, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err := l.Load(path, opt)
			if err != nil {
				return nil, err
			}
			t.Name = filepath.Base(path)
			return t, nil
		}
	}
	return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported extension %q (want .csv, .tsv, .xlsx or .json)", filepath.Ext(path))}
}

// Supported reports whether some loader accepts path.
func Supported(path string) bool {
	for _, l := range registry {
		if l.CanLoad(path) {
			return true
		}
	}
	return false
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // Carry (m)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // Carry [yds]
	{regexp.MustCompile(`^(.*?)[_\s-]+(m|yds|yd|ft|mph|km/h|m/s|rpm|deg|°|s|mm|in)$`), 2},
}

func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}

// unitTokens are the cell values that make a row look like a units row.
var unitTokens = map[string]bool{
	"m": true, "yds": true, "yd": true, "ft": true, "mph": true, "km/h": true,
	"m/s": true, "rpm": true, "deg": true, "°": true, "s": true, "mm": true,
	"in": true, "%": true, "cm": true, "sec": true,
}

func isUnitsRow(row []string) bool {
	seen := 0
	for _, c := range row {
		c = strings.Trim(strings.TrimSpace(c), "()[]")
		if c == "" {
			continue
		}
		if !unitTokens[strings.ToLower(c)] {
			return false
		}
		seen++
	}
	return seen > 0
}

// fromRows builds a table from string rows: an optional group row, the label
// row, an optional units row, then one shot per row.
func fromRows(path string, rows [][]string, opt Options) (*Table, error) {
	var groups []string
	if opt.GroupRow {
		if len(rows) == 0 {
			return nil, &FormatError{Path: path, Reason: "missing group row"}
		}
		groups = forwardFill(rows[0])
		rows = rows[1:]
	}
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, &FormatError{Path: path, Reason: "missing header row"}
	}
	header := rows[0]
	rows = rows[1:]
	var units []string
	if len(rows) > 0 && isUnitsRow(rows[0]) {
		units = rows[0]
		rows = rows[1:]
	}

	t := &Table{}
	seen := map[string]int{}
	for i, h := range header {
		label, unit := splitUnits(h)
		if i < len(units) {
			if u := strings.Trim(strings.TrimSpace(units[i]), "()[]"); u != "" {
				unit = u
			}
		}
		group := ""
		if i < len(groups) {
			group = strings.TrimSpace(groups[i])
		}
		key := slug(group + " " + label)
		if key == "" {
			key = "col_" + strconv.Itoa(i+1)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = key + "_" + strconv.Itoa(n)
		}
		t.Columns = append(t.Columns, analysis.RadarColumn{Key: key, Group: group, Label: label, Unit: unit})
	}

	truncated := 0
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if opt.MaxRows > 0 && len(t.Shots) >= opt.MaxRows {
			t.Warnings = append(t.Warnings, fmt.Sprintf("read only the first %d rows due to MaxRows", opt.MaxRows))
			break
		}
		shot := make(analysis.Shot, len(t.Columns))
		for j, c := range t.Columns {
			if j >= len(row) {
				shot[c.Key] = nil
				continue
			}
			if v := strings.TrimSpace(row[j]); v != "" {
				shot[c.Key] = v
			} else {
				shot[c.Key] = nil
			}
		}
		if len(row) > len(t.Columns) {
			truncated++
		}
		t.Shots = append(t.Shots, shot)
	}
	if truncated > 0 {
		t.Warnings = append(t.Warnings, fmt.Sprintf("%d rows had more cells than the header; extra cells ignored", truncated))
	}
	return t, nil
}

func forwardFill(row []string) []string {
	out := make([]string, len(row))
	cur := ""
	for i, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cur = c
		}
		out[i] = cur
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// slug lowercases s and joins its alphanumeric runs with underscores.
func slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
