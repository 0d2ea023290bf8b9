// Package app runs the Simon Says game loop: capture, detect, step, render.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/simonsays/internal/capture"
	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
	"github.com/ayusman/simonsays/internal/render"
)

// DefaultTerminalHold is how long the final banner stays up before the loop exits.
const DefaultTerminalHold = 5 * time.Second

// frameWait is the per-frame event pump interval handed to the renderer.
const frameWait = time.Millisecond

// Publisher receives every rendered snapshot. frame is the JPEG-encoded
// annotated frame, or nil when none could be produced.
type Publisher interface {
	Publish(state game.DisplayState, frame []byte)
}

// Publishers fans snapshots out to several publishers in order.
type Publishers []Publisher

func (ps Publishers) Publish(state game.DisplayState, frame []byte) {
	for _, p := range ps {
		p.Publish(state, frame)
	}
}

// Config holds options for the application.
type Config struct {
	// SessionID names the game in logs and on the spectator server.
	// Empty generates one.
	SessionID       string
	HoldTime        time.Duration
	InstructionHold time.Duration
	TerminalHold    time.Duration
	// EncodeFrames JPEG-encodes each annotated frame for the publisher.
	EncodeFrames bool
}

// Deps are the collaborators the loop drives. Camera, Detector and Renderer
// are required.
type Deps struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Renderer  render.Renderer
	Clock     clockwork.Clock
	Picker    game.Picker
	Listener  game.Listener
	Publisher Publisher
}

// App owns one game session.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	renderer  render.Renderer
	clock     clockwork.Clock
	picker    game.Picker
	listener  game.Listener
	publisher Publisher
	sessionID string

	mu    sync.RWMutex
	state game.DisplayState
}

// New creates an App. A nil Clock uses the real clock.
func New(config Config, deps Deps) (*App, error) {
	if deps.Camera == nil || deps.Detector == nil || deps.Renderer == nil {
		return nil, errors.New("app: camera, detector and renderer are required")
	}
	if config.TerminalHold <= 0 {
		config.TerminalHold = DefaultTerminalHold
	}

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	sessionID := config.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	listeners := game.Listeners{NewLogListener(sessionID)}
	if deps.Listener != nil {
		listeners = append(listeners, deps.Listener)
	}

	return &App{
		config:    config,
		camera:    deps.Camera,
		detector:  deps.Detector,
		renderer:  deps.Renderer,
		clock:     clock,
		picker:    deps.Picker,
		listener:  listeners,
		publisher: deps.Publisher,
		sessionID: sessionID,
	}, nil
}

// SessionID identifies this game in logs and on the spectator server.
func (a *App) SessionID() string {
	return a.sessionID
}

// State returns the most recently rendered snapshot. Safe for concurrent use.
func (a *App) State() game.DisplayState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) setState(s game.DisplayState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// shutdown releases the loop's resources, logging failures.
func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing camera")
	}
	if err := a.detector.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing detector")
	}
	if err := a.renderer.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing renderer")
	}
}
