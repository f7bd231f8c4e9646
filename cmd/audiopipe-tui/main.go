package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nullwiz/audiopipe/internal/app"
	"github.com/nullwiz/audiopipe/internal/audiofile"
	"github.com/nullwiz/audiopipe/internal/config"
	"github.com/nullwiz/audiopipe/internal/tui"
)

func main() {
	configPath := flag.String("config", "audiopipe.yaml", "path to config file")
	audioPath := flag.String("audio", "", "companion audio file (overrides config)")
	flag.Parse()

	cfg, warnings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	if *audioPath != "" {
		cfg.AudioPath = *audioPath
	}

	bridge := tui.NewBridge()
	engine := app.NewEngine(bridge)
	engine.SetThreshold(cfg.Threshold)

	model := tui.New(engine, bridge, flag.Arg(0))

	if cfg.AudioPath != "" {
		if duration, err := probeAudio(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: audio unavailable: %v\n", err)
		} else {
			model.AttachAudio(filepath.Base(cfg.AudioPath), duration)
		}
	}

	// bubbletea owns the terminal; keep stray log output out of it.
	log.SetOutput(os.Stderr)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "audiopipe-tui: %v\n", err)
		os.Exit(1)
	}
}

func probeAudio(cfg config.Config) (float64, error) {
	info, err := os.Stat(cfg.AudioPath)
	if err != nil {
		return 0, err
	}

	name := filepath.Base(cfg.AudioPath)
	if err := audiofile.Check(name, "", info.Size(), cfg.MaxAudioMB); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ParsedProbeTimeout())
	defer cancel()
	return audiofile.ProbeDuration(ctx, cfg.AudioPath)
}
