package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FFA_CONFIG is set
//  3. env (prefix FFA_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FFA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: FFA_ALPHA, FFA_POSTGRES_DSN, ...
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("FFA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ffa_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RollingWindow < 1 {
		return errors.New("rolling_window must be at least 1")
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return errors.New("alpha must be in (0, 1)")
	}
	if cfg.SRMAlpha <= 0 || cfg.SRMAlpha >= 1 {
		return errors.New("srm_alpha must be in (0, 1)")
	}
	if cfg.TargetPower <= 0 || cfg.TargetPower >= 1 {
		return errors.New("target_power must be in (0, 1)")
	}
	if cfg.ExpectedControlShare <= 0 || cfg.ExpectedControlShare >= 1 {
		return errors.New("expected_control_share must be in (0, 1)")
	}
	for pos, boom := range cfg.BoomThresholdPPR {
		if bust, ok := cfg.BustThresholdPPR[pos]; ok && bust >= boom {
			return errors.New("bust threshold must be below boom threshold for " + pos)
		}
	}
	return nil
}
