package analysis

// Config controls thresholds and chart toggles for one computation. The
// engine reads it and never writes to it.
type Config struct {
	// Charts disables advanced charts by key (false = disabled). Keys not
	// listed stay enabled.
	Charts map[string]bool `mapstructure:"charts" yaml:"charts" json:"charts,omitempty"`
	// LateralCorridor and DistanceCorridor are the half-widths of the
	// corridor percentages, in the unit of the bound column.
	LateralCorridor  float64 `mapstructure:"lateral_corridor" yaml:"lateral_corridor" json:"lateralCorridor"`
	DistanceCorridor float64 `mapstructure:"distance_corridor" yaml:"distance_corridor" json:"distanceCorridor"`
	// ImpactHalfWidth is the |offset| up to which an impact counts as center.
	ImpactHalfWidth float64 `mapstructure:"impact_half_width" yaml:"impact_half_width" json:"impactHalfWidth"`
	// BinQuantiles holds the two cut quantiles of the low/mid/high bins.
	BinQuantiles   []float64 `mapstructure:"bin_quantiles" yaml:"bin_quantiles" json:"binQuantiles"`
	OutlierMetrics []Field   `mapstructure:"outlier_metrics" yaml:"outlier_metrics" json:"outlierMetrics"`
	// AutoSelect is consumed by the selection package only.
	AutoSelect AutoSelectConfig `mapstructure:"auto_select" yaml:"auto_select" json:"autoSelect"`
}

// AutoSelectConfig configures chart auto-selection.
type AutoSelectConfig struct {
	Preset string `mapstructure:"preset" yaml:"preset" json:"preset"`
	Syntax string `mapstructure:"syntax" yaml:"syntax" json:"syntax"`
	Focus  string `mapstructure:"focus" yaml:"focus" json:"focus,omitempty"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		LateralCorridor:  10,
		DistanceCorridor: 10,
		ImpactHalfWidth:  0.4,
		BinQuantiles:     []float64{0.33, 0.66},
		OutlierMetrics:   []Field{FieldCarry, FieldLateral, FieldSmash, FieldBallSpeed},
		AutoSelect:       AutoSelectConfig{Preset: "standard", Syntax: "per_chart"},
	}
}

// resolved returns a copy of c with zero values replaced by defaults.
func (c Config) resolved() Config {
	d := DefaultConfig()
	out := c
	if out.LateralCorridor <= 0 {
		out.LateralCorridor = d.LateralCorridor
	}
	if out.DistanceCorridor <= 0 {
		out.DistanceCorridor = d.DistanceCorridor
	}
	if out.ImpactHalfWidth <= 0 {
		out.ImpactHalfWidth = d.ImpactHalfWidth
	}
	if len(out.BinQuantiles) != 2 || out.BinQuantiles[0] >= out.BinQuantiles[1] {
		out.BinQuantiles = d.BinQuantiles
	}
	if len(out.OutlierMetrics) == 0 {
		out.OutlierMetrics = d.OutlierMetrics
	}
	return out
}

// ChartEnabled reports whether an advanced chart is enabled.
func (c Config) ChartEnabled(key string) bool {
	if c.Charts == nil {
		return true
	}
	on, ok := c.Charts[key]
	return !ok || on
}
