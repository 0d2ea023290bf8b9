// Package render draws the game state for the player.
package render

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
)

// Renderer presents each frame's display state and relays the quit signal.
type Renderer interface {
	// Render presents one frame. hand is nil when no hand was detected.
	Render(frame *gocv.Mat, hand *detector.HandLandmarks, state game.DisplayState) error

	// Wait keeps the display responsive for d and reports whether the
	// player asked to quit. The loop calls it once per frame with a short d
	// and once with the terminal hold after the game ends.
	Wait(ctx context.Context, d time.Duration) bool

	// Close releases any display resources.
	Close() error
}

// Headless renders nothing. Quitting happens through context cancellation.
type Headless struct {
	clock clockwork.Clock
}

// NewHeadless creates a Headless renderer that waits on clock.
func NewHeadless(clock clockwork.Clock) *Headless {
	return &Headless{clock: clock}
}

func (h *Headless) Render(*gocv.Mat, *detector.HandLandmarks, game.DisplayState) error {
	return nil
}

// Wait blocks for d. It reports a quit only when ctx is done first.
func (h *Headless) Wait(ctx context.Context, d time.Duration) bool {
	return sleep(ctx, h.clock, d)
}

func (h *Headless) Close() error {
	return nil
}

// sleep waits d on clock and returns false, or returns true early if ctx ends.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() != nil
	}
	select {
	case <-ctx.Done():
		return true
	case <-clock.After(d):
		return false
	}
}
