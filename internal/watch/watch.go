// Package watch monitors a directory for transcription JSON files produced
// by an upstream pipeline and loads each new or updated file as it appears.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives the producer time to finish writing before we read.
const settleDelay = 100 * time.Millisecond

// Loader consumes a transcript file discovered by the watcher.
type Loader interface {
	LoadTranscript(name string, raw []byte) error
}

// Watcher monitors a directory for transcript JSON files.
type Watcher struct {
	dir    string
	loader Loader
}

// New creates a Watcher for the given directory.
func New(dir string, loader Loader) *Watcher {
	return &Watcher{dir: dir, loader: loader}
}

// Run loads the most recent existing transcript, then watches the directory
// until the context is cancelled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	w.loadLatest()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Printf("Failed to close watcher: %v", err)
		}
	}()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	log.Printf("Watching %s for transcripts", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTranscript(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			time.Sleep(settleDelay)
			w.loadFile(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// loadLatest loads the most recently modified transcript already in the
// directory, so a restart picks up where the pipeline left off.
func (w *Watcher) loadLatest() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Printf("Failed to read watch directory %s: %v", w.dir, err)
		return
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !isTranscript(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(w.dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	if len(candidates) == 0 {
		return
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	w.loadFile(candidates[0].path)
}

func (w *Watcher) loadFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read transcript %s: %v", path, err)
		return
	}
	name := filepath.Base(path)
	if err := w.loader.LoadTranscript(name, raw); err != nil {
		log.Printf("Failed to load transcript %s: %v", name, err)
		return
	}
	log.Printf("Loaded transcript %s", name)
}

func isTranscript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
