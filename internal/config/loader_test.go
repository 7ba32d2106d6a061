package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.RollingWindow != 4 {
		t.Errorf("RollingWindow = %d, want 4", cfg.RollingWindow)
	}
	if cfg.Alpha != 0.05 || cfg.SRMAlpha != 0.01 {
		t.Errorf("alphas = %v, %v, want 0.05, 0.01", cfg.Alpha, cfg.SRMAlpha)
	}
	if cfg.TargetPower != 0.80 || cfg.MinSegmentSize != 30 {
		t.Errorf("power/segment = %v/%d, want 0.80/30", cfg.TargetPower, cfg.MinSegmentSize)
	}
	if cfg.BoomThresholdPPR["QB"] != 30 || cfg.BustThresholdPPR["TE"] != 3 {
		t.Error("boom/bust thresholds do not match league defaults")
	}
	if cfg.StartablePool["RB"] != 48 || cfg.StartablePool["QB"] != 24 {
		t.Error("startable pools do not match 12-team league counts")
	}
	if cfg.ExpectedControlShare != 0.5 {
		t.Errorf("ExpectedControlShare = %v, want 0.5", cfg.ExpectedControlShare)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FFA_ALPHA", "0.01")
	t.Setenv("FFA_ROLLING_WINDOW", "6")
	t.Setenv("FFA_POSTGRES_DSN", "postgres://localhost/test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Alpha != 0.01 {
		t.Errorf("Alpha = %v, want 0.01", cfg.Alpha)
	}
	if cfg.RollingWindow != 6 {
		t.Errorf("RollingWindow = %d, want 6", cfg.RollingWindow)
	}
	if cfg.PostgresDSN != "postgres://localhost/test" {
		t.Errorf("PostgresDSN = %q", cfg.PostgresDSN)
	}
	// Untouched fields keep defaults.
	if cfg.SRMAlpha != 0.01 || cfg.MinSegmentSize != 30 {
		t.Error("unset fields must keep defaults")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("alpha: 0.10\noutput_dir: /tmp/reports\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FFA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Alpha != 0.10 {
		t.Errorf("Alpha = %v, want 0.10", cfg.Alpha)
	}
	if cfg.OutputDir != "/tmp/reports" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("alpha: 0.10\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FFA_CONFIG", path)
	t.Setenv("FFA_ALPHA", "0.02")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Alpha != 0.02 {
		t.Errorf("Alpha = %v, want env value 0.02", cfg.Alpha)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"alpha too high", "FFA_ALPHA", "1.5"},
		{"zero rolling window", "FFA_ROLLING_WINDOW", "0"},
		{"srm alpha at bound", "FFA_SRM_ALPHA", "1"},
		{"target power negative", "FFA_TARGET_POWER", "-0.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected validation error for %s=%s", c.key, c.value)
			}
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("FFA_CONFIG", "/nonexistent/config.yaml")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}
