package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

// Load reads the upstream {columns, shots} shape. Numbers stay json.Number
// so the engine sees them exactly as written.
func (jsonLoader) Load(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	var doc struct {
		Columns []analysis.RadarColumn `json:"columns"`
		Shots   []analysis.Shot        `json:"shots"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(doc.Columns) == 0 {
		return nil, &FormatError{Path: path, Reason: "no columns"}
	}
	t := &Table{Columns: doc.Columns, Shots: doc.Shots}
	if opt.MaxRows > 0 && len(t.Shots) > opt.MaxRows {
		t.Shots = t.Shots[:opt.MaxRows]
		t.Warnings = append(t.Warnings, fmt.Sprintf("read only the first %d rows due to MaxRows", opt.MaxRows))
	}
	return t, nil
}
