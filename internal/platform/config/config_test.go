package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, ".rehearse", "rehearse.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.GainFactor != 0.1 {
		t.Fatalf("default gain factor should be 0.1, got %v", cfg.GainFactor)
	}
	if cfg.Render.BaseSpeed != 1.0 || cfg.Render.GlyphDensity != 12 || !cfg.Render.VoiceReactive {
		t.Fatalf("unexpected render defaults: %+v", cfg.Render)
	}
}

func TestEmptyHomeRejected(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("empty home path must fail")
	}
}

func TestYAMLOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	yaml := []byte("gain_factor: 0.2\nmetrics_addr: \":9921\"\nrender:\n  base_speed: 2.5\n  voice_reactive: false\n")
	if err := os.WriteFile(filepath.Join(home, "rehearse.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.GainFactor != 0.2 {
		t.Fatalf("yaml gain factor should win, got %v", cfg.GainFactor)
	}
	if cfg.MetricsAddr != ":9921" {
		t.Fatalf("yaml metrics addr should win, got %q", cfg.MetricsAddr)
	}
	if cfg.Render.BaseSpeed != 2.5 || cfg.Render.VoiceReactive {
		t.Fatalf("yaml render overrides should win, got %+v", cfg.Render)
	}
	// Omitted knobs keep their defaults.
	if cfg.Render.GlyphDensity != 12 {
		t.Fatalf("unset glyph density should default, got %d", cfg.Render.GlyphDensity)
	}
}

func TestInvalidYAMLFails(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "rehearse.yaml"), []byte("metrics_addr: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := New(home); err == nil {
		t.Fatalf("broken yaml must fail")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	home := t.TempDir()
	yaml := []byte("metrics_addr: \":9921\"\nseed: 1\n")
	if err := os.WriteFile(filepath.Join(home, "rehearse.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REHEARSE_METRICS_ADDR", ":9100")
	t.Setenv("REHEARSE_PROVIDER_BIN", "/usr/local/bin/heuristic")
	t.Setenv("REHEARSE_SEED", "99")

	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Fatalf("env metrics addr should win, got %q", cfg.MetricsAddr)
	}
	if cfg.ProviderBin != "/usr/local/bin/heuristic" {
		t.Fatalf("env provider bin should win, got %q", cfg.ProviderBin)
	}
	if cfg.Seed != 99 {
		t.Fatalf("env seed should win, got %d", cfg.Seed)
	}
}

func TestBadValuesClampToDefaults(t *testing.T) {
	home := t.TempDir()
	yaml := []byte("gain_factor: -1\nrender:\n  base_speed: -3\n  base_opacity: 4\n  glyph_density: 0\n")
	if err := os.WriteFile(filepath.Join(home, "rehearse.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.GainFactor != 0.1 || cfg.Render.BaseSpeed != 1.0 || cfg.Render.BaseOpacity != 0.8 || cfg.Render.GlyphDensity != 12 {
		t.Fatalf("bad values must clamp to defaults: %+v", cfg)
	}
}
