package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/radar-cli/internal/config"
	"github.com/KaramelBytes/radar-cli/internal/selection"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set radar configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: output_dir, format, jobs, engine.lateral_corridor, engine.distance_corridor,
engine.impact_half_width, engine.bin_quantiles (e.g. "0.33,0.66"),
engine.outlier_metrics (e.g. "carry,lateral"), engine.auto_select.preset,
engine.auto_select.syntax, engine.auto_select.focus, engine.charts.<chart key> (true|false).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	e := &c.Engine
	if chart, ok := strings.CutPrefix(key, "engine.charts."); ok {
		if !knownChart(chart) {
			return fmt.Errorf("unknown chart key: %s (see 'radar charts')", chart)
		}
		on, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if e.Charts == nil {
			e.Charts = map[string]bool{}
		}
		e.Charts[chart] = on
		return nil
	}
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "format":
		f, err := resolveFormat(val)
		if err != nil {
			return fmt.Errorf("invalid format: %s (use json or md)", val)
		}
		c.Format = f
	case "jobs":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for jobs: %v", val)
		}
		c.Jobs = i
	case "engine.lateral_corridor":
		return setPositive(&e.LateralCorridor, key, val)
	case "engine.distance_corridor":
		return setPositive(&e.DistanceCorridor, key, val)
	case "engine.impact_half_width":
		return setPositive(&e.ImpactHalfWidth, key, val)
	case "engine.bin_quantiles":
		parts := strings.Split(val, ",")
		if len(parts) != 2 {
			return fmt.Errorf("invalid %s: want two quantiles like 0.33,0.66", key)
		}
		q := make([]float64, 2)
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid quantile for %s: %v", key, p)
			}
			q[i] = f
		}
		if q[0] >= q[1] {
			return fmt.Errorf("invalid %s: quantiles must increase", key)
		}
		e.BinQuantiles = q
	case "engine.outlier_metrics":
		var fields []analysis.Field
		for _, p := range strings.Split(val, ",") {
			f := analysis.Field(strings.TrimSpace(p))
			if !numericField(f) {
				return fmt.Errorf("invalid metric for %s: %s", key, f)
			}
			fields = append(fields, f)
		}
		e.OutlierMetrics = fields
	case "engine.auto_select.preset":
		p := strings.ToLower(val)
		if selection.LookupPreset(p).Name != p {
			return fmt.Errorf("invalid preset: %s (use %s)", val, strings.Join(selection.PresetNames, ", "))
		}
		e.AutoSelect.Preset = p
	case "engine.auto_select.syntax":
		switch val {
		case selection.NarrativeGlobal, selection.NarrativePerChart:
			e.AutoSelect.Syntax = val
		default:
			return fmt.Errorf("invalid syntax: %s (use global or per_chart)", val)
		}
	case "engine.auto_select.focus":
		e.AutoSelect.Focus = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setPositive(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("invalid positive float for %s: %v", key, val)
	}
	*dst = f
	return nil
}

func knownChart(key string) bool {
	_, ok := analysis.LookupChart(key)
	return ok
}

func numericField(f analysis.Field) bool {
	for _, n := range analysis.NumericFields {
		if n == f {
			return true
		}
	}
	for _, n := range []analysis.Field{analysis.FieldDistanceFromTarget, analysis.FieldRadialMiss, analysis.FieldAbsFTP, analysis.FieldStrikeScore} {
		if n == f {
			return true
		}
	}
	return false
}
