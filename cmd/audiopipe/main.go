package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nullwiz/audiopipe/internal/app"
	"github.com/nullwiz/audiopipe/internal/audiofile"
	"github.com/nullwiz/audiopipe/internal/config"
	"github.com/nullwiz/audiopipe/internal/server"
	"github.com/nullwiz/audiopipe/internal/watch"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	log.Println("audiopipe: starting")

	configPath := flag.String("config", "audiopipe.yaml", "path to config file")
	transcriptPath := flag.String("transcript", "", "transcript JSON to load on startup")
	flag.Parse()

	cfg, warnings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	for _, warning := range warnings {
		log.Printf("warning: %s", warning)
	}

	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("static assets init failed: %v", err)
	}

	hub := server.NewHub()
	engine := app.NewEngine(hub)
	engine.SetThreshold(cfg.Threshold)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AudioPath != "" {
		attachAudio(ctx, engine, cfg)
	}

	if *transcriptPath != "" {
		raw, readErr := os.ReadFile(*transcriptPath)
		if readErr != nil {
			log.Fatalf("read transcript failed: %v", readErr)
		}
		name := filepath.Base(*transcriptPath)
		if loadErr := engine.LoadTranscript(name, raw); loadErr != nil {
			log.Printf("warning: transcript load failed: %v", loadErr)
		} else {
			log.Printf("loaded transcript %s", name)
		}
	}

	if cfg.WatchDir != "" {
		watcher := watch.New(cfg.WatchDir, engine)
		go func() {
			if watchErr := watcher.Run(ctx); watchErr != nil && watchErr != context.Canceled {
				log.Printf("warning: transcript watcher stopped: %v", watchErr)
			}
		}()
	}

	handler := server.Handler(assets, hub, engine, server.Options{
		AudioPath:   cfg.AudioPath,
		MaxUploadMB: cfg.MaxAudioMB,
		Theme:       cfg.Theme,
	})

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	go func() {
		log.Printf("audiopipe: web UI on http://%s", cfg.ListenAddr)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Printf("http server error: %v", serveErr)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("audiopipe: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("warning: http shutdown failed: %v", err)
	}
}

// attachAudio validates the configured audio file and, for WAV, probes its
// duration so seeking can be clamped server-side.
func attachAudio(ctx context.Context, engine *app.Engine, cfg config.Config) {
	info, err := os.Stat(cfg.AudioPath)
	if err != nil {
		log.Printf("warning: audio file unavailable: %v", err)
		return
	}

	name := filepath.Base(cfg.AudioPath)
	if err := audiofile.Check(name, "", info.Size(), cfg.MaxAudioMB); err != nil {
		log.Printf("warning: audio file rejected: %v", err)
		return
	}

	probeCtx, probeCancel := context.WithTimeout(ctx, cfg.ParsedProbeTimeout())
	defer probeCancel()

	duration, err := audiofile.ProbeDuration(probeCtx, cfg.AudioPath)
	if err != nil {
		log.Printf("warning: audio duration unknown, seeks are unbounded: %v", err)
		duration = 0
	}
	engine.SetAudio(name, duration)
}
