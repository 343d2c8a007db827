package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
)

// streamEvent is one diff broadcast to the subscribers of a session.
type streamEvent struct {
	diff *domain.StateDiff
	data []byte
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	// Logger defaults to a no-op logger.
	Logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[chan<- streamEvent]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		Logger:      logging.NewNop(),
		subscribers: make(map[string]map[chan<- streamEvent]struct{}),
	}
}

// Subscribe registers a buffered channel for a session. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan streamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamEvent, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- streamEvent]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Subscribers counts the open streams of a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends a diff to every subscriber of the session.
// Slow clients whose buffer is full miss the message.
func (sm *StreamManager) Broadcast(diff *domain.StateDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.Logger.Error("StreamManager: encode diff failed", "err", err)
		return
	}
	ev := streamEvent{diff: diff, data: data}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs := sm.subscribers[diff.SessionID]
	sm.Logger.Debug("StreamManager: Broadcasting", "session_id", diff.SessionID, "subscribers", len(subs), "payload_size", len(data))
	for ch := range subs {
		select {
		case ch <- ev:
		default:
			sm.Logger.Warn("SSE: Client buffer full, dropping message", "session_id", diff.SessionID)
		}
	}
}

// parseWatch splits the watch query value into a field set. Nil means everything.
func parseWatch(watch *string) map[string]bool {
	if watch == nil || strings.TrimSpace(*watch) == "" {
		return nil
	}
	fields := make(map[string]bool)
	for _, f := range strings.Split(*watch, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields[f] = true
		}
	}
	return fields
}

// matches reports whether the diff touches any watched field.
func matches(diff *domain.StateDiff, watch map[string]bool) bool {
	if watch == nil {
		return true
	}
	return (watch["display"] && diff.Display != nil) ||
		(watch["equation"] && diff.Equation != nil) ||
		(watch["memory"] && diff.Memory != nil) ||
		(watch["angle_mode"] && diff.AngleMode != nil) ||
		(watch["error"] && (diff.Error != nil || diff.ErrorCleared)) ||
		(watch["second"] && diff.IsSecondMode != nil)
}
