package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the namespace prefix for all AudioPipe environment variables.
const EnvPrefix = "AUDIOPIPE_"

// Config holds all application configuration.
type Config struct {
	ListenAddr        string  `yaml:"listen_addr"`
	WatchDir          string  `yaml:"watch_dir"`
	AudioPath         string  `yaml:"audio_path"`
	Threshold         float64 `yaml:"consolidation_threshold"`
	MaxAudioMB        int     `yaml:"max_audio_mb"`
	AudioProbeTimeout string  `yaml:"audio_probe_timeout"`
	Theme             string  `yaml:"theme"`
}

func defaults() Config {
	return Config{
		ListenAddr:        "127.0.0.1:8173",
		Threshold:         1.0,
		MaxAudioMB:        500,
		AudioProbeTimeout: "10s",
		Theme:             "dark",
	}
}

// Load reads configuration from a YAML file (if it exists), applies
// environment variable overrides, and validates the result. It returns the
// config, any validation warnings, and an error if the file exists but
// cannot be read or parsed.
func Load(path string) (Config, []string, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, nil, fmt.Errorf("read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	warnings := validate(&cfg)
	return cfg, warnings, nil
}

// ParsedProbeTimeout returns AudioProbeTimeout as a time.Duration, falling
// back to 10s if the value is invalid.
func (c *Config) ParsedProbeTimeout() time.Duration {
	d, err := time.ParseDuration(c.AudioProbeTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvPrefix + "WATCH_DIR"); v != "" {
		cfg.WatchDir = v
	}
	if v := os.Getenv(EnvPrefix + "AUDIO_PATH"); v != "" {
		cfg.AudioPath = v
	}
	if v := os.Getenv(EnvPrefix + "CONSOLIDATION_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && threshold >= 0 {
			cfg.Threshold = threshold
		}
	}
	if v := os.Getenv(EnvPrefix + "MAX_AUDIO_MB"); v != "" {
		if maxMB, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && maxMB > 0 {
			cfg.MaxAudioMB = maxMB
		}
	}
	if v := os.Getenv(EnvPrefix + "AUDIO_PROBE_TIMEOUT"); v != "" {
		cfg.AudioProbeTimeout = v
	}
	if v := os.Getenv(EnvPrefix + "THEME"); v != "" {
		cfg.Theme = v
	}
}

func validate(cfg *Config) []string {
	var warnings []string

	if cfg.Threshold < 0 {
		warnings = append(warnings, fmt.Sprintf("Negative consolidation_threshold %v, using 0.", cfg.Threshold))
		cfg.Threshold = 0
	}
	if cfg.MaxAudioMB <= 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid max_audio_mb %d, using default 500.", cfg.MaxAudioMB))
		cfg.MaxAudioMB = 500
	}
	if _, err := time.ParseDuration(cfg.AudioProbeTimeout); err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid audio_probe_timeout %q, using default 10s.", cfg.AudioProbeTimeout))
	}
	if cfg.Theme != "dark" && cfg.Theme != "light" {
		warnings = append(warnings, fmt.Sprintf("Unknown theme %q, using dark.", cfg.Theme))
		cfg.Theme = "dark"
	}
	if cfg.WatchDir != "" {
		if info, err := os.Stat(cfg.WatchDir); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("watch_dir %q is not a readable directory, transcript watching disabled.", cfg.WatchDir))
			cfg.WatchDir = ""
		}
	}

	return warnings
}
