package game

import "github.com/ayusman/simonsays/internal/gesture"

// Result messages shown to the player.
const (
	MsgCorrect       = "Correct!"
	MsgWrongMove     = "Uh Oh! Wrong Move"
	MsgSimonDidntSay = "Uh Oh! Simon didn't say!"
)

// Verdict is the decision for one stabilized gesture.
type Verdict struct {
	Outcome Outcome
	Message string
	Delta   int
	Gesture gesture.Gesture
}

// Evaluate scores a locked gesture against the round's instruction. Only the
// first call per round yields a verdict; later calls return false.
//
// Any gesture under a bare instruction is penalized, Unknown included.
func Evaluate(round *RoundState, g gesture.Gesture) (Verdict, bool) {
	if round.Result != Unset {
		return Verdict{}, false
	}

	v := Verdict{Gesture: g}
	switch {
	case !round.Instruction.Sanctioned:
		v.Outcome, v.Message, v.Delta = Incorrect, MsgSimonDidntSay, -1
	case g == round.Instruction.Gesture:
		v.Outcome, v.Message, v.Delta = Correct, MsgCorrect, 1
	default:
		v.Outcome, v.Message, v.Delta = Incorrect, MsgWrongMove, -1
	}

	round.Result = v.Outcome
	return v, true
}
