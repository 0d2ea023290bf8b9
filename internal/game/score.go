package game

// WinScore is the score that wins the game. Any negative score loses.
const WinScore = 5

// Status is the game's terminal state.
type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// ScoreTracker accumulates score deltas until the game is won or lost.
type ScoreTracker struct {
	score int
}

// Apply adds delta to the score. Deltas are ignored once the game is over;
// Apply reports whether the delta was applied.
func (t *ScoreTracker) Apply(delta int) bool {
	if t.Status() != Playing {
		return false
	}
	t.score += delta
	return true
}

// Current returns the score.
func (t *ScoreTracker) Current() int {
	return t.score
}

// Status reports Won at WinScore or above, Lost below zero.
func (t *ScoreTracker) Status() Status {
	switch {
	case t.score >= WinScore:
		return Won
	case t.score < 0:
		return Lost
	default:
		return Playing
	}
}
