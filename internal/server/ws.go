package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nullwiz/audiopipe/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func registerWSRoute(mux *http.ServeMux, hub *Hub, engine *app.Engine) {
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		// Snapshot before the live stream: the connection marker, the
		// current view state, and the statistics when a transcript is
		// already installed. A client connecting mid-session needs these
		// to render without a round of polling.
		now := time.Now().UTC()
		snapshot := []any{
			ConnectionEvent{Event: newEvent("connection", now), Connected: true},
			stateChangedEvent(engine.State(), now),
		}
		if engine.Store() != nil {
			snapshot = append(snapshot, statisticsEvent(engine.Statistics(), now))
		}
		for _, event := range snapshot {
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("event marshal error: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}

		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		for msg := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	})
}
