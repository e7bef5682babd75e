package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/radar-cli/internal/analysis"
)

// Global configuration structure.
type Global struct {
	// OutputDir is where analyze-batch writes artifacts by default.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// Format is the default analyze output: json or md.
	Format string `mapstructure:"format" yaml:"format"`
	// Jobs bounds concurrent files in analyze-batch.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
	// Engine holds the analytics thresholds and auto-selection settings.
	Engine analysis.Config `mapstructure:"engine" yaml:"engine"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".radar"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.radar/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults. A .env file in
// the working directory is loaded into the environment first when present.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("RADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := analysis.DefaultConfig()
	v.SetDefault("output_dir", "radar-out")
	v.SetDefault("format", "json")
	v.SetDefault("jobs", 4)
	v.SetDefault("engine.charts", map[string]bool{})
	v.SetDefault("engine.lateral_corridor", d.LateralCorridor)
	v.SetDefault("engine.distance_corridor", d.DistanceCorridor)
	v.SetDefault("engine.impact_half_width", d.ImpactHalfWidth)
	v.SetDefault("engine.bin_quantiles", d.BinQuantiles)
	v.SetDefault("engine.outlier_metrics", fieldNames(d.OutlierMetrics))
	v.SetDefault("engine.auto_select.preset", d.AutoSelect.Preset)
	v.SetDefault("engine.auto_select.syntax", d.AutoSelect.Syntax)
	v.SetDefault("engine.auto_select.focus", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func fieldNames(fields []analysis.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
