package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	"github.com/KaramelBytes/radar-cli/internal/ingest"
	"github.com/KaramelBytes/radar-cli/internal/selection"
)

// sessionFlags are shared by every command that analyzes an input file.
type sessionFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	groupRow   bool
	maxRows    int
	club       string
	ball       string
	preset     string
	syntax     string
	focus      string
	lateral    float64
	distance   float64
	impactHalf float64
	disable    []string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fl.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fl.BoolVar(&f.groupRow, "group-row", false, "first row holds column groups above the labels")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum shots to read (0 = unlimited)")
	fl.StringVar(&f.club, "club", "", "club used for the session")
	fl.StringVar(&f.ball, "ball", "", "ball used for the session")
	fl.StringVar(&f.preset, "preset", "", "selection preset: ultra|synthetic|standard|pousse|complet")
	fl.StringVar(&f.syntax, "syntax", "", "narrative syntax: per_chart|global")
	fl.StringVar(&f.focus, "focus", "", "focus category: precision|distance|contact|trajectoire|regularite")
	fl.Float64Var(&f.lateral, "lateral-corridor", 0, "lateral corridor half-width (overrides config)")
	fl.Float64Var(&f.distance, "distance-corridor", 0, "distance corridor half-width (overrides config)")
	fl.Float64Var(&f.impactHalf, "impact-half-width", 0, "impact center half-width (overrides config)")
	fl.StringSliceVar(&f.disable, "disable-chart", nil, "chart keys to disable (repeatable)")
}

func (f *sessionFlags) ingestOptions() (ingest.Options, error) {
	opt := ingest.DefaultOptions()
	opt.SheetName = f.sheetName
	opt.SheetIndex = f.sheetIndex
	opt.GroupRow = f.groupRow
	opt.MaxRows = f.maxRows
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	return opt, nil
}

// engineConfig starts from the loaded config (or defaults) and applies the
// flags that were set.
func (f *sessionFlags) engineConfig(cmd *cobra.Command) analysis.Config {
	c := analysis.DefaultConfig()
	if cfg != nil {
		c = cfg.Engine
	}
	charts := make(map[string]bool, len(c.Charts)+len(f.disable))
	for k, v := range c.Charts {
		charts[k] = v
	}
	for _, k := range f.disable {
		charts[strings.TrimSpace(k)] = false
	}
	c.Charts = charts
	fl := cmd.Flags()
	if fl.Changed("lateral-corridor") {
		c.LateralCorridor = f.lateral
	}
	if fl.Changed("distance-corridor") {
		c.DistanceCorridor = f.distance
	}
	if fl.Changed("impact-half-width") {
		c.ImpactHalfWidth = f.impactHalf
	}
	applySelectFlags(&c.AutoSelect, f.preset, f.syntax, f.focus)
	return c
}

func applySelectFlags(c *analysis.AutoSelectConfig, preset, syntax, focus string) {
	if preset != "" {
		c.Preset = preset
	}
	if syntax != "" {
		c.Syntax = syntax
	}
	if focus != "" {
		c.Focus = focus
	}
}

// envelope wraps an artifact with run metadata for storage.
type envelope struct {
	ID        string              `json:"id"`
	Source    string              `json:"source"`
	CreatedAt time.Time           `json:"createdAt"`
	Selection selection.Selection `json:"selection"`
	Analytics *analysis.Analytics `json:"analytics"`
}

// runSession loads path, computes the artifact and selects charts.
func runSession(cmd *cobra.Command, path string, f *sessionFlags) (*envelope, error) {
	opt, err := f.ingestOptions()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	t, err := ingest.LoadFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	entry := log.WithField("file", t.Name)
	entry.WithFields(logrus.Fields{
		"columns": len(t.Columns),
		"rows":    len(t.Shots),
		"elapsed": time.Since(start).String(),
	}).Debug("table loaded")
	for _, w := range t.Warnings {
		entry.Warn(w)
	}

	ec := f.engineConfig(cmd)
	start = time.Now()
	a := analysis.ComputeAnalytics(t.Columns, t.Shots, ec, analysis.ClubBall{Club: f.club, Ball: f.ball})
	entry.WithFields(logrus.Fields{
		"shots":   a.Meta.ShotCount,
		"dropped": a.Meta.DroppedRows.Summary + a.Meta.DroppedRows.Index,
		"missing": len(a.Meta.MissingColumns),
		"elapsed": time.Since(start).String(),
	}).Debug("analytics computed")
	for field, key := range a.Meta.ColumnMap {
		entry.WithFields(logrus.Fields{"field": field, "column": key}).Debug("column bound")
	}

	sel := selection.Select(a, ec.AutoSelect)
	entry.WithFields(logrus.Fields{
		"preset": sel.Preset.Name,
		"keys":   strings.Join(sel.Keys, ","),
	}).Debug("charts selected")

	return &envelope{
		ID:        uuid.NewString(),
		Source:    t.Name,
		CreatedAt: time.Now().UTC(),
		Selection: sel,
		Analytics: a,
	}, nil
}

// readArtifact reads an envelope written by analyze, or a bare artifact.
func readArtifact(path string) (*envelope, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if env.Analytics == nil {
		var a analysis.Analytics
		if err := json.Unmarshal(b, &a); err != nil {
			return nil, fmt.Errorf("decode artifact: %w", err)
		}
		env = envelope{Source: filepath.Base(path), Analytics: &a}
	}
	if v := env.Analytics.Version; v != analysis.Version {
		return nil, fmt.Errorf("artifact version %q is not supported (want %q)", v, analysis.Version)
	}
	return &env, nil
}
