// Package game implements the Simon Says round state machine: instruction
// rounds on a fixed timer, verdicts on stabilized gestures, and scoring.
package game

import "github.com/ayusman/simonsays/internal/gesture"

// SimonSays is the marker that sanctions an instruction.
const SimonSays = "Simon says"

// NumInstructions is the size of the instruction set.
const NumInstructions = 6

// Instruction is what the player is currently told to do.
type Instruction struct {
	Gesture    gesture.Gesture
	Sanctioned bool // prefixed with SimonSays; acting on it is expected
}

// instructionSet holds the bare gestures first, then the sanctioned ones.
// Sanctioning comes from the position in this list, never from the text.
var instructionSet = func() [NumInstructions]Instruction {
	var set [NumInstructions]Instruction
	for i := range set {
		set[i] = Instruction{
			Gesture:    gesture.Playable[i%len(gesture.Playable)],
			Sanctioned: i > 2,
		}
	}
	return set
}()

// Instructions returns a copy of the fixed instruction set.
func Instructions() []Instruction {
	set := instructionSet
	return set[:]
}

// String returns the instruction as shown to the player.
func (i Instruction) String() string {
	if i.Sanctioned {
		return SimonSays + " " + i.Gesture.String()
	}
	return i.Gesture.String()
}

// MarshalText implements encoding.TextMarshaler.
func (i Instruction) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// pick draws an instruction uniformly. Repeats are allowed.
func pick(p Picker) Instruction {
	return instructionSet[p.Intn(NumInstructions)]
}
