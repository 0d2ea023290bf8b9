package gesture

import "time"

// DefaultHoldTime is how long a raw gesture must stay unchanged before it locks.
const DefaultHoldTime = time.Second

// Observation is the classifier output for a single frame.
type Observation struct {
	Gesture Gesture
	Present bool // false when no hand was detected
}

// NoObservation is the observation for a frame without a detected hand.
var NoObservation = Observation{}

// Observed wraps a classified gesture as a present observation.
func Observed(g Gesture) Observation {
	return Observation{Gesture: g, Present: true}
}

// Stabilizer debounces per-frame gestures. A gesture locks once it has been
// observed unchanged for the hold time, and the lock is reported exactly once.
//
// Frames without a hand leave the candidate untouched. Any different
// observation restarts the dwell, even if it matches an earlier lock.
type Stabilizer struct {
	hold      time.Duration
	candidate Observation
	since     time.Time
	locked    bool
}

// NewStabilizer creates a Stabilizer with the given hold time.
// Non-positive values fall back to DefaultHoldTime.
func NewStabilizer(hold time.Duration) *Stabilizer {
	if hold <= 0 {
		hold = DefaultHoldTime
	}
	return &Stabilizer{hold: hold}
}

// Observe feeds one frame's observation taken at now. It returns the gesture
// and true only on the frame where the candidate becomes locked.
func (s *Stabilizer) Observe(obs Observation, now time.Time) (Gesture, bool) {
	if !obs.Present {
		return Unknown, false
	}

	if obs != s.candidate {
		s.candidate = obs
		s.since = now
		s.locked = false
		return Unknown, false
	}

	if s.locked || now.Sub(s.since) < s.hold {
		return Unknown, false
	}

	s.locked = true
	return obs.Gesture, true
}

// Reset clears the candidate and any lock.
func (s *Stabilizer) Reset() {
	s.candidate = NoObservation
	s.since = time.Time{}
	s.locked = false
}
