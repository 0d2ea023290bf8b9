package render

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
)

// WindowTitle is the title of the game window.
const WindowTitle = "Simon Says RPS"

// keyEscape quits the game from the window.
const keyEscape = 27

// Window renders into an OpenCV window. It must be used from the main thread.
type Window struct {
	window *gocv.Window
}

// NewWindow opens the game window.
func NewWindow() *Window {
	return &Window{window: gocv.NewWindow(WindowTitle)}
}

// Render annotates the frame and shows it.
func (w *Window) Render(frame *gocv.Mat, hand *detector.HandLandmarks, state game.DisplayState) error {
	if frame == nil || frame.Empty() {
		return nil
	}
	Annotate(frame, hand, state)
	w.window.IMShow(*frame)
	return nil
}

// Wait pumps window events for d and reports whether ESC was pressed.
func (w *Window) Wait(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return true
	}
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return w.window.WaitKey(ms)&0xFF == keyEscape
}

func (w *Window) Close() error {
	return w.window.Close()
}
