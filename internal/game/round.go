package game

import "time"

// DefaultInstructionHold is how long one instruction stays active.
const DefaultInstructionHold = 5 * time.Second

// Outcome is the scored result of a round.
type Outcome int

const (
	Unset Outcome = iota
	Correct
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unset"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RoundState is the state of the active round.
type RoundState struct {
	Number      int
	Instruction Instruction
	StartedAt   time.Time
	Result      Outcome
}

// Scheduler owns the current instruction and rotates it on a wall-clock timer.
type Scheduler struct {
	hold      time.Duration
	picker    Picker
	current   Instruction
	startedAt time.Time
	number    int
}

// NewScheduler starts the first round at now with a random instruction.
// Non-positive hold values fall back to DefaultInstructionHold.
func NewScheduler(hold time.Duration, picker Picker, now time.Time) *Scheduler {
	if hold <= 0 {
		hold = DefaultInstructionHold
	}
	s := &Scheduler{hold: hold, picker: picker}
	s.advance(now)
	return s
}

// Tick starts a new round when more than the hold time has elapsed since the
// current one began. It reports whether the round changed.
func (s *Scheduler) Tick(now time.Time) bool {
	if now.Sub(s.startedAt) <= s.hold {
		return false
	}
	s.advance(now)
	return true
}

func (s *Scheduler) advance(now time.Time) {
	s.current = pick(s.picker)
	s.startedAt = now
	s.number++
}

// Current returns the active instruction.
func (s *Scheduler) Current() Instruction {
	return s.current
}

// Round returns a fresh, unscored state for the active round.
func (s *Scheduler) Round() RoundState {
	return RoundState{
		Number:      s.number,
		Instruction: s.current,
		StartedAt:   s.startedAt,
		Result:      Unset,
	}
}
