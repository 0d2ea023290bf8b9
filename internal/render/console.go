package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/muesli/termenv"
	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
)

// Console prints the display state to a terminal whenever it changes.
type Console struct {
	out     *termenv.Output
	clock   clockwork.Clock
	last    game.DisplayState
	printed bool
}

// NewConsole creates a Console writing to w. Pass termenv options such as
// termenv.WithProfile to force a color profile.
func NewConsole(w io.Writer, clock clockwork.Clock, opts ...termenv.OutputOption) *Console {
	return &Console{
		out:   termenv.NewOutput(w, opts...),
		clock: clock,
	}
}

// Render prints the state if it differs from the last one printed.
func (c *Console) Render(_ *gocv.Mat, _ *detector.HandLandmarks, state game.DisplayState) error {
	if c.printed && state == c.last {
		return nil
	}
	c.last = state
	c.printed = true

	lines := []string{
		c.out.String(fmt.Sprintf("Round %d  %s", state.Round, state.InstructionText())).Bold().String(),
		c.out.String(state.Gesture).Foreground(c.out.Color("#5f87ff")).String(),
	}
	if state.Result != "" {
		lines = append(lines, c.out.String(state.Result).Foreground(c.resultColor(state.Outcome)).Bold().String())
	}
	lines = append(lines, c.out.String(state.ScoreText()).Foreground(c.out.Color("#ffff00")).String())
	if state.Terminal() {
		lines = append(lines, c.out.String(state.Banner.Text()).Foreground(c.out.Color("#00ff00")).Bold().String())
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(c.out)
	return err
}

func (c *Console) resultColor(o game.Outcome) termenv.Color {
	if o == game.Correct {
		return c.out.Color("#00ff00")
	}
	return c.out.Color("#ff0000")
}

// Wait blocks for d. The console has no quit key; quitting happens through ctx.
func (c *Console) Wait(ctx context.Context, d time.Duration) bool {
	return sleep(ctx, c.clock, d)
}

func (c *Console) Close() error {
	return nil
}
