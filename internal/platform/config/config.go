package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Render holds the visual field knobs. Zero values are replaced by defaults
// so a partial rehearse.yaml stays valid.
type Render struct {
	BaseSpeed     float64 `yaml:"base_speed"`
	BaseOpacity   float64 `yaml:"base_opacity"`
	GlyphDensity  int     `yaml:"glyph_density"`
	GlowStrength  float64 `yaml:"glow_strength"`
	VoiceReactive bool    `yaml:"voice_reactive"`
}

type Config struct {
	HomePath    string  `yaml:"-"`
	DBPath      string  `yaml:"-"`
	GainFactor  float64 `yaml:"gain_factor"`
	MetricsAddr string  `yaml:"metrics_addr"`
	Seed        int64   `yaml:"seed"`
	Render      Render  `yaml:"render"`
	ProviderBin string  `yaml:"provider_bin"`
}

const configFileName = "rehearse.yaml"

func defaults(homePath string) Config {
	return Config{
		HomePath:   homePath,
		DBPath:     filepath.Join(homePath, ".rehearse", "rehearse.db"),
		GainFactor: 0.1,
		Render: Render{
			BaseSpeed:     1.0,
			BaseOpacity:   0.8,
			GlyphDensity:  12,
			GlowStrength:  0.5,
			VoiceReactive: true,
		},
	}
}

// New resolves configuration for the given home directory: defaults, then an
// optional rehearse.yaml, then environment overrides. A .env file next to the
// config is loaded first so both sources see it.
func New(homePath string) (Config, error) {
	if homePath == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	_ = godotenv.Load(filepath.Join(homePath, ".env"))

	cfg := defaults(homePath)
	raw, err := os.ReadFile(filepath.Join(homePath, configFileName))
	if err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configFileName, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", configFileName, err)
	}

	applyEnv(&cfg)
	if cfg.Render.BaseSpeed <= 0 {
		cfg.Render.BaseSpeed = 1.0
	}
	if cfg.Render.BaseOpacity <= 0 || cfg.Render.BaseOpacity > 1 {
		cfg.Render.BaseOpacity = 0.8
	}
	if cfg.Render.GlyphDensity <= 0 {
		cfg.Render.GlyphDensity = 12
	}
	if cfg.GainFactor <= 0 {
		cfg.GainFactor = 0.1
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REHEARSE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("REHEARSE_PROVIDER_BIN"); v != "" {
		cfg.ProviderBin = v
	}
	if v := os.Getenv("REHEARSE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
}
