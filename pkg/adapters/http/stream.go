package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// streamBuffer is how many events a slow watcher may lag behind before events are dropped.
const streamBuffer = 16

// event is one server-sent event. Name is "diff" for tape/state changes and
// "halt" once a machine reaches its halt state.
type event struct {
	Name string
	Data []byte
}

// StreamManager fans machine changes out to the SSE watchers of each session.
type StreamManager struct {
	mu       sync.RWMutex
	watchers map[string]map[chan event]struct{}
	logger   *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		watchers: make(map[string]map[chan event]struct{}),
		logger:   logging.NewNop(),
	}
}

// Subscribe registers a watcher of sessionID. The returned func unregisters it
// and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan event, func()) {
	ch := make(chan event, streamBuffer)

	sm.mu.Lock()
	set, ok := sm.watchers[sessionID]
	if !ok {
		set = make(map[chan event]struct{})
		sm.watchers[sessionID] = set
	}
	set[ch] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(set, ch)
			close(ch)
			if len(set) == 0 {
				delete(sm.watchers, sessionID)
			}
		})
	}
}

// Watchers reports how many clients follow sessionID.
func (sm *StreamManager) Watchers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.watchers[sessionID])
}

// Broadcast pushes diff to every watcher of the session, followed by a halt
// event when the diff reports the machine halting.
func (sm *StreamManager) Broadcast(sessionID string, diff *domain.SnapshotDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("Stream: diff encode failed", "session_id", sessionID, "err", err)
		return
	}
	sm.publish(sessionID, event{Name: "diff", Data: data})
	if diff.Halted != nil && *diff.Halted {
		state := ""
		if diff.State != nil {
			state = *diff.State
		}
		sm.publish(sessionID, event{Name: "halt", Data: []byte(fmt.Sprintf("%q", state))})
	}
}

func (sm *StreamManager) publish(sessionID string, ev event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.watchers[sessionID] {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("Stream: watcher lagging, event dropped", "session_id", sessionID, "event", ev.Name)
		}
	}
}

// SubscribeEvents handles GET /sessions/{id}/events. The client receives a ping
// on connect, then one diff event per change of the machine.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionID := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.Logger.Debug("Stream: watcher connected", "session_id", sessionID)

	fmt.Fprint(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("Stream: watcher gone", "session_id", sessionID)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		}
	}
}
