package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("radar %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	// Flag values and Changed state stick between Execute calls
	resetFlags(rootCmd)
	cfg = nil
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeSession(t *testing.T, path string, shots int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Shot No,Shot Type,Carry Distance [m],Total Distance [m],Carry Side [m],Club Speed [km/h],Ball Speed [km/h],Smash Factor,Spin Rate [rpm],Launch Angle [deg],Club Path [deg],Face to Path [deg]\n")
	for i := 1; i <= shots; i++ {
		carry := 150 + 3*float64(i%4) + 0.5*float64(i)
		club := 140 + float64(i%5)
		ball := club*1.45 + float64(i%3)
		side := fmt.Sprintf("%dL", i%5+1)
		if i%2 == 0 {
			side = fmt.Sprintf("%d.5R", i%4)
		}
		typ := "Fade"
		if i%3 == 0 {
			typ = "Draw"
		}
		fmt.Fprintf(&b, "%d,%s,%.1f,%.1f,%s,%.1f,%.1f,%.2f,%d,%.1f,%.1f,%.1f\n",
			i, typ, carry, carry+10+float64(i%3), side, club, ball, ball/club,
			2600+40*(i%6), 11+0.4*float64(i%3), -1+0.5*float64(i%3), 1-0.4*float64(i%4))
	}
	b.WriteString("Avg,,155,,,,,,,,,\n")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}
}

func TestAnalyzeWritesEnvelope(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "range.csv")
	writeSession(t, in, 14)
	dest := filepath.Join(home, "out", "range.json")

	out := runCmd(t, "analyze", in, "-o", dest, "--club", "7i", "--preset", "synthetic")
	assert.Contains(t, out, "✓ Wrote json analytics for 14 shots")

	env, err := readArtifact(dest)
	require.NoError(t, err)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "range.csv", env.Source)
	assert.Equal(t, analysis.Version, env.Analytics.Version)
	assert.Equal(t, "7i", env.Analytics.Meta.Club)
	assert.Equal(t, 1, env.Analytics.Meta.DroppedRows.Summary)
	assert.Equal(t, "carry_distance", env.Analytics.Meta.ColumnMap[analysis.FieldCarry])
	assert.Equal(t, "synthetic", env.Selection.Preset.Name)
	assert.NotEmpty(t, env.Selection.Keys)
}

func TestAnalyzeMarkdownToStdout(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "range.csv")
	writeSession(t, in, 12)

	out := runCmd(t, "analyze", in, "--format", "md")
	assert.Contains(t, out, "[SESSION SUMMARY]")
	assert.Contains(t, out, "Shots: 12")
	assert.Contains(t, out, "[SELECTED CHARTS]")
}

func TestAnalyzeDisableChartAndCorridor(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "range.csv")
	writeSession(t, in, 12)
	dest := filepath.Join(home, "range.json")

	runCmd(t, "analyze", in, "-o", dest, "--disable-chart", "carry_hist", "--lateral-corridor", "100")
	env, err := readArtifact(dest)
	require.NoError(t, err)
	_, ok := env.Analytics.ChartsData["carry_hist"]
	assert.False(t, ok, "disabled chart must not be built")
	require.NotNil(t, env.Analytics.Summary.LateralCorridorPct)
	assert.Equal(t, 100.0, *env.Analytics.Summary.LateralCorridorPct)

	// flags do not leak into the next run
	runCmd(t, "analyze", in, "-o", dest)
	env, err = readArtifact(dest)
	require.NoError(t, err)
	_, ok = env.Analytics.ChartsData["carry_hist"]
	assert.True(t, ok)
}

func TestAnalyzeRejectsBadFormat(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "range.csv")
	writeSession(t, in, 10)

	_, err := execCmd("analyze", in, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --format")
}

func TestAnalyzeBatchGlob(t *testing.T) {
	home := setHome(t)
	writeSession(t, filepath.Join(home, "in", "monday.csv"), 12)
	writeSession(t, filepath.Join(home, "in", "tuesday.csv"), 15)
	if err := os.WriteFile(filepath.Join(home, "in", "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	outDir := filepath.Join(home, "artifacts")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "in", "*"), "--out-dir", outDir, "-j", "2")
	assert.Contains(t, out, "[1/2]")
	assert.Contains(t, out, "[2/2]")

	for name, shots := range map[string]int{"monday.json": 12, "tuesday.json": 15} {
		env, err := readArtifact(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, shots, env.Analytics.Meta.ShotCount, name)
	}
	_, err := os.Stat(filepath.Join(outDir, "notes.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeBatchFailureModes(t *testing.T) {
	home := setHome(t)
	good := filepath.Join(home, "in", "good.csv")
	bad := filepath.Join(home, "in", "empty.csv")
	writeSession(t, good, 12)
	if err := os.WriteFile(bad, nil, 0o644); err != nil {
		t.Fatalf("write bad: %v", err)
	}
	outDir := filepath.Join(home, "md")

	_, err := execCmd("analyze-batch", good, bad, "--out-dir", outDir, "--format", "md", "--keep-going", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	b, err := os.ReadFile(filepath.Join(outDir, "good.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "[SESSION SUMMARY]")

	_, err = execCmd("analyze-batch", filepath.Join(home, "nothing", "*.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files matched")
}

func TestSelectAndPreviewArtifact(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "range.csv")
	writeSession(t, in, 16)
	artifact := filepath.Join(home, "range.json")
	runCmd(t, "analyze", in, "-o", artifact)

	out := runCmd(t, "select", artifact, "--preset", "ultra", "--json")
	var sel struct {
		Preset struct {
			Name     string `json:"name"`
			MaxTotal int    `json:"maxTotal"`
		} `json:"preset"`
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sel))
	assert.Equal(t, "ultra", sel.Preset.Name)
	assert.NotEmpty(t, sel.Keys)
	assert.LessOrEqual(t, len(sel.Keys), sel.Preset.MaxTotal)

	out = runCmd(t, "select", artifact, "--focus", "distance")
	assert.Contains(t, out, "Focus: distance")
	assert.Contains(t, out, "✓")

	out = runCmd(t, "preview", artifact)
	assert.Contains(t, out, "✓ Wrote")
	html, err := os.ReadFile(filepath.Join(home, "range.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")

	_, err = execCmd("select", filepath.Join(home, "missing.json"))
	require.Error(t, err)
}

func TestReadArtifactRejectsOtherVersion(t *testing.T) {
	p := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(p, []byte(`{"version":"0.1","meta":{}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := readArtifact(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestChartsListing(t *testing.T) {
	setHome(t)
	out := runCmd(t, "charts")
	assert.Contains(t, out, "Base charts:")
	assert.Contains(t, out, "Advanced charts:")
	assert.Contains(t, out, "carry_hist")

	_, err := execCmd("charts", "--group", "no-such-group")
	require.Error(t, err)
}

func TestConfigSetAndShow(t *testing.T) {
	home := setHome(t)

	runCmd(t, "config", "set", "jobs", "8")
	runCmd(t, "config", "set", "engine.lateral_corridor", "7.5")
	runCmd(t, "config", "set", "engine.charts.carry_hist", "false")

	b, err := os.ReadFile(filepath.Join(home, ".radar", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "jobs: 8")
	assert.Contains(t, string(b), "lateral_corridor: 7.5")

	_, err = execCmd("config", "set", "engine.charts.nope", "true")
	require.Error(t, err)
	_, err = execCmd("config", "set", "jobs", "zero")
	require.Error(t, err)

	// show only prints a loaded config
	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "No config loaded")
}
