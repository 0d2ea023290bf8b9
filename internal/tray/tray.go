// Package tray shows the running game in the system tray when no window is open.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/simonsays/internal/game"
)

// Tray represents the system tray application.
type Tray struct {
	onQuit func()
	quit   func()
	state  game.DisplayState
	ready  bool
	mu     sync.RWMutex

	// Menu items stored for later updates
	menuInstruction *systray.MenuItem
	menuGesture     *systray.MenuItem
	menuResult      *systray.MenuItem
	menuScore       *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{quit: systray.Quit}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called and must run on the main thread.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	t.quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Simon Says")
	systray.SetTooltip("Simon Says Rock Paper Scissors")

	t.mu.Lock()
	t.menuInstruction = systray.AddMenuItem("", "Current instruction")
	t.menuInstruction.Disable()
	t.menuGesture = systray.AddMenuItem("", "Locked gesture")
	t.menuGesture.Disable()
	t.menuResult = systray.AddMenuItem("", "Last result")
	t.menuResult.Disable()
	t.menuScore = systray.AddMenuItem("", "Score")
	t.menuScore.Disable()
	t.ready = true
	state := t.state
	t.mu.Unlock()

	t.apply(state)
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Simon Says")

	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()
}

func (t *Tray) onExit() {}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	t.Quit()
}

// Publish shows the latest game state in the menu. The frame is ignored.
func (t *Tray) Publish(state game.DisplayState, _ []byte) {
	t.mu.Lock()
	changed := state != t.state
	t.state = state
	ready := t.ready
	t.mu.Unlock()

	if changed && ready {
		t.apply(state)
	}
}

func (t *Tray) apply(state game.DisplayState) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	t.menuInstruction.SetTitle(state.InstructionText())
	t.menuGesture.SetTitle(state.Gesture)
	t.menuResult.SetTitle(resultTitle(state))
	t.menuScore.SetTitle(state.ScoreText())
	systray.SetTitle(title(state))
}

// title is the text next to the tray icon.
func title(state game.DisplayState) string {
	if state.Terminal() {
		return state.Banner.Text()
	}
	return state.ScoreText()
}

func resultTitle(state game.DisplayState) string {
	if state.Result == "" {
		return "No result yet"
	}
	return state.Result
}
