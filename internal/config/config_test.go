package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, warnings, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.ListenAddr != "127.0.0.1:8173" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Threshold != 1.0 {
		t.Errorf("Threshold = %v, want 1.0", cfg.Threshold)
	}
	if cfg.MaxAudioMB != 500 {
		t.Errorf("MaxAudioMB = %d, want 500", cfg.MaxAudioMB)
	}
	if cfg.ParsedProbeTimeout() != 10*time.Second {
		t.Errorf("ParsedProbeTimeout() = %v, want 10s", cfg.ParsedProbeTimeout())
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: "0.0.0.0:9000"
consolidation_threshold: 2.5
max_audio_mb: 100
audio_probe_timeout: "3s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Threshold != 2.5 {
		t.Errorf("Threshold = %v, want 2.5", cfg.Threshold)
	}
	if cfg.MaxAudioMB != 100 {
		t.Errorf("MaxAudioMB = %d, want 100", cfg.MaxAudioMB)
	}
	if cfg.ParsedProbeTimeout() != 3*time.Second {
		t.Errorf("ParsedProbeTimeout() = %v, want 3s", cfg.ParsedProbeTimeout())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [not: valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"LISTEN_ADDR", "localhost:4000")
	t.Setenv(EnvPrefix+"CONSOLIDATION_THRESHOLD", "0.5")
	t.Setenv(EnvPrefix+"MAX_AUDIO_MB", "250")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != "localhost:4000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Threshold != 0.5 {
		t.Errorf("Threshold = %v, want 0.5", cfg.Threshold)
	}
	if cfg.MaxAudioMB != 250 {
		t.Errorf("MaxAudioMB = %d, want 250", cfg.MaxAudioMB)
	}
}

func TestEnvOverrideIgnoresInvalid(t *testing.T) {
	t.Setenv(EnvPrefix+"CONSOLIDATION_THRESHOLD", "not-a-number")
	t.Setenv(EnvPrefix+"MAX_AUDIO_MB", "-5")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Threshold != 1.0 {
		t.Errorf("Threshold = %v, want default 1.0", cfg.Threshold)
	}
	if cfg.MaxAudioMB != 500 {
		t.Errorf("MaxAudioMB = %d, want default 500", cfg.MaxAudioMB)
	}
}

func TestValidateWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
consolidation_threshold: -1
max_audio_mb: 0
audio_probe_timeout: "soon"
theme: "solarized"
watch_dir: "/nonexistent/transcripts"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 5 {
		t.Fatalf("got %d warnings, want 5: %v", len(warnings), warnings)
	}
	if cfg.Threshold != 0 {
		t.Errorf("Threshold = %v, want clamped 0", cfg.Threshold)
	}
	if cfg.MaxAudioMB != 500 {
		t.Errorf("MaxAudioMB = %d, want fallback 500", cfg.MaxAudioMB)
	}
	if cfg.WatchDir != "" {
		t.Errorf("WatchDir = %q, want cleared", cfg.WatchDir)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want fallback dark", cfg.Theme)
	}
	for _, w := range warnings {
		if !strings.Contains(w, "disabled") && !strings.Contains(w, "using") {
			t.Errorf("warning lacks guidance: %q", w)
		}
	}
}
