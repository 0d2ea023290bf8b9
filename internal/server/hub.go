package server

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ayusman/simonsays/internal/game"
)

// Snapshot is the game state as served to spectators.
type Snapshot struct {
	Session   string            `json:"session"`
	Seq       uint64            `json:"seq"`
	UpdatedAt time.Time         `json:"updated_at"`
	State     game.DisplayState `json:"state"`
}

// Hub keeps the latest published state and frame and wakes subscribers on
// every publish. It is safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	snap  Snapshot
	frame []byte
	subs  map[chan struct{}]struct{}
	clock clockwork.Clock
}

// NewHub creates a Hub for the given game session. A nil clock uses the
// real one.
func NewHub(session string, clock clockwork.Clock) *Hub {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hub{
		snap:  Snapshot{Session: session},
		subs:  make(map[chan struct{}]struct{}),
		clock: clock,
	}
}

// Publish records state and, when non-nil, frame as the latest and notifies
// subscribers. It never blocks on a slow subscriber.
func (h *Hub) Publish(state game.DisplayState, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap.Seq++
	h.snap.UpdatedAt = h.clock.Now()
	h.snap.State = state
	if frame != nil {
		h.frame = frame
	}

	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns the latest state.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Frame returns the latest JPEG frame, or nil if none has been published.
// Callers must not modify it.
func (h *Hub) Frame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame
}

// Subscribe returns a channel signalled after each publish and a function
// that removes the subscription.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
