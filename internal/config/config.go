// Package config defines analytics engine configuration.
//
// Boom/bust thresholds and startable pool sizes are domain constants
// with no derivation rule; they are carried as configuration with the
// established league values as defaults rather than hardcoded.
package config

// Config contains process configuration for both engines.
type Config struct {
	// BoomThresholdPPR maps position to the PPR score at or above
	// which a game counts as a "boom".
	BoomThresholdPPR map[string]float64 `koanf:"boom_threshold_ppr"`

	// BustThresholdPPR maps position to the PPR score at or below
	// which a game counts as a "bust".
	BustThresholdPPR map[string]float64 `koanf:"bust_threshold_ppr"`

	// RollingWindow is the trailing-average window in weeks.
	RollingWindow int `koanf:"rolling_window"`

	// StartablePool maps position to the top-N cutoff used for the
	// positional baseline (12-team league startable counts).
	StartablePool map[string]int `koanf:"startable_pool"`

	// Alpha is the significance threshold for outcome tests.
	Alpha float64 `koanf:"alpha"`

	// SRMAlpha is the stricter threshold for the sample ratio
	// mismatch gate.
	SRMAlpha float64 `koanf:"srm_alpha"`

	// TargetPower is the power level used for MDE computation.
	TargetPower float64 `koanf:"target_power"`

	// MinSegmentSize is the per-arm user count below which a segment
	// result is flagged low-confidence.
	MinSegmentSize int `koanf:"min_segment_size"`

	// ExpectedControlShare is the expected control fraction of
	// assignments (0.5 for a 50/50 split).
	ExpectedControlShare float64 `koanf:"expected_control_share"`

	// PostgresDSN and ClickhouseDSN configure the storage backends.
	// Empty values select in-memory stores.
	PostgresDSN   string `koanf:"postgres_dsn"`
	ClickhouseDSN string `koanf:"clickhouse_dsn"`

	// Addr configures the HTTP listen address for cmd/server.
	Addr string `koanf:"addr"`

	// OutputDir is where reports and CSV exports are written.
	OutputDir string `koanf:"output_dir"`
}

// New creates a Config with defaults matching the original league setup.
func New() *Config {
	return &Config{
		BoomThresholdPPR: map[string]float64{
			"QB": 30.0, "RB": 20.0, "WR": 20.0, "TE": 15.0,
		},
		BustThresholdPPR: map[string]float64{
			"QB": 10.0, "RB": 5.0, "WR": 5.0, "TE": 3.0,
		},
		RollingWindow: 4,
		StartablePool: map[string]int{
			"QB": 24, "RB": 48, "WR": 48, "TE": 24,
		},
		Alpha:                0.05,
		SRMAlpha:             0.01,
		TargetPower:          0.80,
		MinSegmentSize:       30,
		ExpectedControlShare: 0.5,
		Addr:                 ":8080",
		OutputDir:            "output",
	}
}
