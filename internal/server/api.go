package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nullwiz/audiopipe/internal/app"
	"github.com/nullwiz/audiopipe/internal/audiofile"
	"github.com/nullwiz/audiopipe/internal/export"
	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// Options carries per-deployment settings into the HTTP layer.
type Options struct {
	// AudioPath is the companion audio file served at /api/audio. Empty
	// disables audio playback.
	AudioPath string

	// MaxUploadMB bounds transcript upload size. Zero means 32 MB.
	MaxUploadMB int

	// Theme is the default UI theme ("dark" or "light").
	Theme string
}

func (o Options) maxUploadBytes() int64 {
	if o.MaxUploadMB <= 0 {
		return 32 << 20
	}
	return int64(o.MaxUploadMB) << 20
}

func registerAPIRoutes(mux *http.ServeMux, engine *app.Engine, opts Options) {
	mux.HandleFunc("POST /api/transcript", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "transcription.json"
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, opts.maxUploadBytes()))
		if err != nil {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "transcript too large")
			return
		}

		if err := engine.LoadTranscript(name, raw); err != nil {
			var validationErr *transcript.ValidationError
			switch {
			case errors.Is(err, transcript.ErrNoSegments):
				writeJSON(w, http.StatusOK, map[string]string{"warning": err.Error()})
			case errors.As(err, &validationErr):
				writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				writeJSONError(w, http.StatusBadRequest, err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"name":       name,
			"statistics": engine.Statistics(),
		})
	})

	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, r *http.Request) {
		theme := opts.Theme
		if theme == "" {
			theme = "dark"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"theme":     theme,
			"threshold": engine.Threshold(),
			"hasAudio":  opts.AudioPath != "",
		})
	})

	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		state := engine.State()
		payload := map[string]any{"state": state.Kind.String()}
		if state.Message != "" {
			payload["message"] = state.Message
		}
		if state.Kind == viewstate.Content {
			payload["subview"] = state.Subview.String()
		}
		writeJSON(w, http.StatusOK, payload)
	})

	mux.HandleFunc("GET /api/segments", func(w http.ResponseWriter, r *http.Request) {
		if engine.Store() == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}
		segments := engine.FilteredSegments()
		if segments == nil {
			segments = []transcript.Segment{}
		}
		writeJSON(w, http.StatusOK, segments)
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		if engine.Store() == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}
		writeJSON(w, http.StatusOK, engine.Statistics())
	})

	mux.HandleFunc("GET /api/speakers", func(w http.ResponseWriter, r *http.Request) {
		store := engine.Store()
		if store == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}

		colors := transcript.SpeakerColors(store.Segments())
		excluded := engine.ExcludedSpeakers()

		type speakerInfo struct {
			Name     string  `json:"name"`
			Color    string  `json:"color"`
			Segments int     `json:"segments"`
			Duration float64 `json:"duration"`
			Excluded bool    `json:"excluded"`
		}
		speakers := make([]speakerInfo, 0, len(store.Speakers()))
		for _, name := range store.Speakers() {
			own := transcript.SegmentsForSpeaker(store.Segments(), name)
			speakers = append(speakers, speakerInfo{
				Name:     name,
				Color:    colors[name],
				Segments: len(own),
				Duration: transcript.SpeakingTime(own),
				Excluded: excluded[name],
			})
		}
		writeJSON(w, http.StatusOK, speakers)
	})

	mux.HandleFunc("POST /api/speakers/{name}/toggle", func(w http.ResponseWriter, r *http.Request) {
		hidden := engine.ToggleSpeaker(r.PathValue("name"))
		writeJSON(w, http.StatusOK, map[string]bool{"hidden": hidden})
	})

	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid search body")
			return
		}
		engine.SetQuery(body.Query)
		writeJSON(w, http.StatusOK, map[string]int{"matches": len(engine.FilteredSegments())})
	})

	mux.HandleFunc("DELETE /api/search", func(w http.ResponseWriter, r *http.Request) {
		engine.ClearSearch()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /api/consolidate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Threshold *float64 `json:"threshold"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
			writeJSONError(w, http.StatusBadRequest, "invalid consolidate body")
			return
		}
		if body.Threshold != nil {
			engine.SetThreshold(*body.Threshold)
		}

		if engine.Store() == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}
		groups := engine.ApplyConsolidation()
		writeJSON(w, http.StatusOK, map[string]any{
			"threshold": engine.Threshold(),
			"groups":    len(groups),
		})
	})

	mux.HandleFunc("DELETE /api/consolidate", func(w http.ResponseWriter, r *http.Request) {
		engine.ClearConsolidation()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/consolidated", func(w http.ResponseWriter, r *http.Request) {
		groups := engine.ConsolidatedGroups()
		if groups == nil {
			writeJSONError(w, http.StatusNotFound, "consolidation not applied")
			return
		}
		writeJSON(w, http.StatusOK, groups)
	})

	mux.HandleFunc("POST /api/view", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			View string `json:"view"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid view body")
			return
		}
		sub, ok := parseSubview(body.View)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown view %q", body.View))
			return
		}
		if err := engine.SwitchView(sub); err != nil {
			writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /api/retry", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Retry(); err != nil {
			writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /api/seek", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Time float64 `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid seek body")
			return
		}
		clamped, ok := engine.Seek(body.Time)
		if !ok {
			writeJSONError(w, http.StatusConflict, "no audio file loaded")
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"time": clamped})
	})

	mux.HandleFunc("POST /api/time", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Time float64 `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid time body")
			return
		}
		id, active := engine.TimeUpdate(body.Time)
		writeJSON(w, http.StatusOK, map[string]any{"segment_id": id, "active": active})
	})

	registerExportRoutes(mux, engine)
	registerAudioRoute(mux, opts)
}

func registerExportRoutes(mux *http.ServeMux, engine *app.Engine) {
	mux.HandleFunc("GET /api/export/text", func(w http.ResponseWriter, r *http.Request) {
		if engine.Store() == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}
		setAttachment(w, export.TextFileName, "text/plain; charset=utf-8")
		if groups := engine.ConsolidatedGroups(); groups != nil {
			_ = export.GroupText(w, groups)
			return
		}
		_ = export.Text(w, engine.FilteredSegments())
	})

	mux.HandleFunc("GET /api/export/srt", func(w http.ResponseWriter, r *http.Request) {
		if engine.Store() == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}
		setAttachment(w, export.SRTFileName, "application/x-subrip")
		if groups := engine.ConsolidatedGroups(); groups != nil {
			_ = export.GroupSRT(w, groups)
			return
		}
		_ = export.SRT(w, engine.FilteredSegments())
	})

	mux.HandleFunc("GET /api/export/json", func(w http.ResponseWriter, r *http.Request) {
		store := engine.Store()
		if store == nil {
			writeJSONError(w, http.StatusNotFound, "no transcript loaded")
			return
		}

		threshold := engine.Threshold()
		groups := engine.ConsolidatedGroups()
		if groups == nil {
			// No consolidation applied yet: consolidate on the fly without
			// changing the timeline view.
			groups = transcript.Consolidate(store.Segments(), threshold)
		}

		setAttachment(w, export.ConsolidatedFileName(threshold), "application/json")
		_ = export.ConsolidatedJSON(w, groups, export.JSONOptions{
			Threshold:        threshold,
			OriginalSegments: store.Len(),
			TotalDuration:    store.Statistics().TotalDuration,
			Simplified:       r.URL.Query().Get("simplified") == "1",
		})
	})
}

func registerAudioRoute(mux *http.ServeMux, opts Options) {
	mux.HandleFunc("GET /api/audio", func(w http.ResponseWriter, r *http.Request) {
		if opts.AudioPath == "" {
			writeJSONError(w, http.StatusNotFound, "audio not available")
			return
		}

		f, err := os.Open(opts.AudioPath)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "audio file not found")
			return
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("stat audio: %v", err))
			return
		}

		name := filepath.Base(opts.AudioPath)
		if err := audiofile.Check(name, "", info.Size(), audiofile.DefaultMaxSizeMB); err != nil {
			writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}

		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Content-Type", audiofile.ContentType(name))
		http.ServeContent(w, r, name, info.ModTime(), f)
	})
}

func parseSubview(name string) (viewstate.Subview, bool) {
	switch name {
	case "timeline":
		return viewstate.Timeline, true
	case "speakers":
		return viewstate.Speakers, true
	case "visualization":
		return viewstate.Visualization, true
	default:
		return viewstate.Timeline, false
	}
}

func setAttachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
