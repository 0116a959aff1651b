package ws

import (
	"sort"
	"sync"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/proto"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
)

const (
	sessionsMetricKey       = "ws_sessions"
	broadcastBytesMetricKey = "ws_broadcast_bytes_total"
	slowClientMetricKey     = "ws_slow_client_disconnects_total"
)

// Hub fans tick results out to every connected session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  telemetry.Metrics
}

// NewHub constructs an empty hub.
func NewHub(metrics telemetry.Metrics) *Hub {
	if metrics == nil {
		metrics = telemetry.WrapMetrics(nil)
	}
	return &Hub{sessions: make(map[string]*Session), metrics: metrics}
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ControlKey] = s
	count := len(h.sessions)
	h.mu.Unlock()
	h.metrics.Store(sessionsMetricKey, uint64(count))
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	if current, ok := h.sessions[s.ControlKey]; ok && current == s {
		delete(h.sessions, s.ControlKey)
	}
	count := len(h.sessions)
	h.mu.Unlock()
	h.metrics.Store(sessionsMetricKey, uint64(count))
}

// Len reports the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// HeroIDs lists the heroes of connected sessions in sorted order.
func (h *Hub) HeroIDs() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.sessions))
	for _, s := range h.sessions {
		ids = append(ids, s.HeroID)
	}
	h.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Broadcast sends one tick to every session. Sessions that cannot keep up
// are closed; their read loop then leaves the match.
func (h *Hub) Broadcast(result sim.LoopStepResult) error {
	msg := proto.NewTick(result.Tick, result.Events, result.Snapshots, result.Winner)
	if msg.Empty() {
		return nil
	}
	data, err := proto.Encode(msg)
	if err != nil {
		return err
	}
	h.mu.RLock()
	var slow []*Session
	sent := 0
	for _, s := range h.sessions {
		if s.Enqueue(data) {
			sent++
		} else {
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	h.metrics.Add(broadcastBytesMetricKey, uint64(len(data)*sent))
	for _, s := range slow {
		h.metrics.Add(slowClientMetricKey, 1)
		s.Close()
	}
	return nil
}

// CloseAll disconnects every session.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()
	for _, s := range sessions {
		s.Close()
	}
}
