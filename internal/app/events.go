package app

import (
	"github.com/rs/zerolog/log"

	"github.com/ayusman/simonsays/internal/game"
	"github.com/ayusman/simonsays/internal/gesture"
)

// LogListener writes game events to the structured log.
type LogListener struct {
	session string
}

func NewLogListener(session string) *LogListener {
	return &LogListener{session: session}
}

func (l *LogListener) RoundStarted(round game.RoundState) {
	log.Info().
		Str("session", l.session).
		Int("round", round.Number).
		Str("instruction", round.Instruction.String()).
		Msg("round started")
}

func (l *LogListener) GestureLocked(g gesture.Gesture) {
	log.Debug().Str("session", l.session).Stringer("gesture", g).Msg("gesture locked")
}

func (l *LogListener) Verdict(v game.Verdict, score int) {
	log.Info().
		Str("session", l.session).
		Stringer("outcome", v.Outcome).
		Stringer("gesture", v.Gesture).
		Int("delta", v.Delta).
		Int("score", score).
		Msg(v.Message)
}

func (l *LogListener) GameOver(status game.Status, score int) {
	log.Info().Str("session", l.session).Stringer("status", status).Int("score", score).Msg("game over")
}
