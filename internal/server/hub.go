package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// Hub fans engine events out to connected websocket clients. It satisfies
// app.EventBroadcaster; slow clients drop messages rather than block the
// engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan []byte]struct{})}
}

func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) BroadcastStateChanged(state viewstate.State) {
	h.broadcastEvent(stateChangedEvent(state, time.Now().UTC()))
}

func (h *Hub) BroadcastStatistics(stats transcript.Statistics) {
	h.broadcastEvent(statisticsEvent(stats, time.Now().UTC()))
}

func (h *Hub) BroadcastActiveSegment(id int, active bool) {
	h.broadcastEvent(ActiveSegmentEvent{
		Event:     newEvent("active_segment", time.Now().UTC()),
		SegmentID: id,
		Active:    active,
	})
}

func (h *Hub) BroadcastToast(level, message string) {
	h.broadcastEvent(ToastEvent{
		Event:   newEvent("toast", time.Now().UTC()),
		Level:   level,
		Message: message,
	})
}

func (h *Hub) broadcastEvent(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}
	h.Broadcast(payload)
}
