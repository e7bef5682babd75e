package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	"github.com/KaramelBytes/radar-cli/internal/config"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	tempHome(t)
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "radar-out", c.OutputDir)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, 4, c.Jobs)

	d := analysis.DefaultConfig()
	assert.Equal(t, d.LateralCorridor, c.Engine.LateralCorridor)
	assert.Equal(t, d.ImpactHalfWidth, c.Engine.ImpactHalfWidth)
	assert.Equal(t, d.BinQuantiles, c.Engine.BinQuantiles)
	assert.Equal(t, d.OutlierMetrics, c.Engine.OutlierMetrics)
	assert.Equal(t, "standard", c.Engine.AutoSelect.Preset)
	assert.True(t, c.Engine.ChartEnabled("carry_hist"))
}

func TestLoadEnvOverrides(t *testing.T) {
	tempHome(t)
	t.Setenv("RADAR_JOBS", "8")
	t.Setenv("RADAR_ENGINE_LATERAL_CORRIDOR", "7.5")
	t.Setenv("RADAR_ENGINE_AUTO_SELECT_PRESET", "ultra")
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Jobs)
	assert.Equal(t, 7.5, c.Engine.LateralCorridor)
	assert.Equal(t, "ultra", c.Engine.AutoSelect.Preset)
}

func TestLoadConfigFile(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, ".radar")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	yaml := "format: md\nengine:\n  distance_corridor: 5\n  charts:\n    carry_hist: false\n  auto_select:\n    focus: contact\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "md", c.Format)
	assert.Equal(t, 5.0, c.Engine.DistanceCorridor)
	assert.Equal(t, 10.0, c.Engine.LateralCorridor, "unset keys keep defaults")
	assert.False(t, c.Engine.ChartEnabled("carry_hist"))
	assert.True(t, c.Engine.ChartEnabled("total_hist"))
	assert.Equal(t, "contact", c.Engine.AutoSelect.Focus)
}

func TestSaveThenLoad(t *testing.T) {
	home := tempHome(t)
	c, err := config.Load("")
	require.NoError(t, err)
	c.Jobs = 2
	c.Engine.BinQuantiles = []float64{0.25, 0.75}
	c.Engine.OutlierMetrics = []analysis.Field{analysis.FieldCarry}
	require.NoError(t, config.Save(c, ""))
	_, err = os.Stat(filepath.Join(home, ".radar", "config.yaml"))
	require.NoError(t, err)

	back, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, back.Jobs)
	assert.Equal(t, []float64{0.25, 0.75}, back.Engine.BinQuantiles)
	assert.Equal(t, []analysis.Field{analysis.FieldCarry}, back.Engine.OutlierMetrics)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	home := tempHome(t)
	c, err := config.Load(filepath.Join(home, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format)
}
