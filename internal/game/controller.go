package game

import (
	"math/rand"
	"time"

	"github.com/ayusman/simonsays/internal/gesture"
)

// Listener is notified of game events as the controller produces them.
type Listener interface {
	RoundStarted(round RoundState)
	GestureLocked(g gesture.Gesture)
	Verdict(v Verdict, score int)
	GameOver(status Status, score int)
}

// NopListener ignores every event. Embed it to implement only some methods.
type NopListener struct{}

func (NopListener) RoundStarted(RoundState)       {}
func (NopListener) GestureLocked(gesture.Gesture) {}
func (NopListener) Verdict(Verdict, int)          {}
func (NopListener) GameOver(Status, int)          {}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

func (ls Listeners) RoundStarted(round RoundState) {
	for _, l := range ls {
		l.RoundStarted(round)
	}
}

func (ls Listeners) GestureLocked(g gesture.Gesture) {
	for _, l := range ls {
		l.GestureLocked(g)
	}
}

func (ls Listeners) Verdict(v Verdict, score int) {
	for _, l := range ls {
		l.Verdict(v, score)
	}
}

func (ls Listeners) GameOver(status Status, score int) {
	for _, l := range ls {
		l.GameOver(status, score)
	}
}

// Config holds the controller's timing and collaborators.
type Config struct {
	// HoldTime is how long a gesture must stay unchanged to lock (default 1s).
	HoldTime time.Duration
	// InstructionHold is the length of a round (default 5s).
	InstructionHold time.Duration
	// Picker chooses instructions. Defaults to a time-seeded source.
	Picker Picker
	// Listener receives game events. Optional.
	Listener Listener
}

// Controller drives one game, one frame at a time. It is not safe for
// concurrent use; the frame loop owns it.
type Controller struct {
	scheduler   *Scheduler
	stabilizer  *gesture.Stabilizer
	round       RoundState
	score       ScoreTracker
	gestureText string
	result      Verdict
	listener    Listener
}

// NewController starts a game whose first round begins at now.
func NewController(cfg Config, now time.Time) *Controller {
	picker := cfg.Picker
	if picker == nil {
		picker = rand.New(rand.NewSource(now.UnixNano()))
	}
	listener := cfg.Listener
	if listener == nil {
		listener = NopListener{}
	}

	c := &Controller{
		scheduler:   NewScheduler(cfg.InstructionHold, picker, now),
		stabilizer:  gesture.NewStabilizer(cfg.HoldTime),
		gestureText: WaitingText,
		listener:    listener,
	}
	c.round = c.scheduler.Round()
	c.listener.RoundStarted(c.round)
	return c
}

// Step advances the game by one frame observed at now and returns the
// snapshot to render. Once the game is over, Step only returns the final state.
func (c *Controller) Step(obs gesture.Observation, now time.Time) DisplayState {
	if c.score.Status() != Playing {
		return c.State()
	}

	if c.scheduler.Tick(now) {
		c.round = c.scheduler.Round()
		c.stabilizer.Reset()
		c.gestureText = WaitingText
		c.result = Verdict{}
		c.listener.RoundStarted(c.round)
	}

	g, locked := c.stabilizer.Observe(obs, now)
	if !locked {
		return c.State()
	}

	c.gestureText = "Locked: " + g.String()
	c.listener.GestureLocked(g)

	v, ok := Evaluate(&c.round, g)
	if !ok {
		return c.State()
	}

	c.score.Apply(v.Delta)
	c.result = v
	c.listener.Verdict(v, c.score.Current())

	if status := c.score.Status(); status != Playing {
		c.listener.GameOver(status, c.score.Current())
	}

	return c.State()
}

// State returns the current display snapshot.
func (c *Controller) State() DisplayState {
	return DisplayState{
		Round:       c.round.Number,
		Instruction: c.round.Instruction.String(),
		Gesture:     c.gestureText,
		Result:      c.result.Message,
		Outcome:     c.result.Outcome,
		Score:       c.score.Current(),
		WinScore:    WinScore,
		Banner:      bannerFor(c.score.Status()),
	}
}

// Status reports whether the game is still being played.
func (c *Controller) Status() Status {
	return c.score.Status()
}

// Round returns the active round.
func (c *Controller) Round() RoundState {
	return c.round
}
