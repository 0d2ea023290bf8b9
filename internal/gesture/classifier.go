// Package gesture turns hand landmarks into Rock/Paper/Scissors gestures and
// debounces the per-frame signal into stable, deliberate gestures.
package gesture

import "github.com/ayusman/simonsays/internal/detector"

// Gesture is a hand shape recognized by the game.
type Gesture int

const (
	// Unknown is any hand shape outside the three playable gestures.
	Unknown Gesture = iota
	Rock
	Paper
	Scissors
)

// Playable lists the gestures an instruction can name, in instruction order.
var Playable = [3]Gesture{Rock, Paper, Scissors}

// String returns the display name of the gesture.
func (g Gesture) String() string {
	switch g {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Fingers holds the extension state of the index, middle, ring and pinky fingers.
type Fingers [4]bool

// FingersOf derives the finger extension vector from raw landmarks.
// A finger is extended when its tip is numerically above (smaller Y than)
// the joint two landmarks back along the same finger. Image coordinates have
// a top-left origin, so smaller Y is higher on screen.
func FingersOf(hand *detector.HandLandmarks) Fingers {
	var f Fingers
	for i, tip := range detector.FingerTips {
		f[i] = hand.Points[tip].Y < hand.Points[tip-2].Y
	}
	return f
}

// ClassifyFingers maps a finger extension vector to a gesture.
func ClassifyFingers(f Fingers) Gesture {
	switch f {
	case Fingers{false, false, false, false}:
		return Rock
	case Fingers{true, true, true, true}:
		return Paper
	case Fingers{true, true, false, false}:
		return Scissors
	default:
		return Unknown
	}
}

// Classify maps a detected hand to a gesture. Hands with missing, non-finite
// or out-of-frame landmarks classify as Unknown.
func Classify(hand *detector.HandLandmarks) Gesture {
	if !hand.Valid() {
		return Unknown
	}
	return ClassifyFingers(FingersOf(hand))
}

// Observe converts the detector output for one frame into an Observation.
// No hand yields NoObservation, which is distinct from Unknown.
func Observe(hands []detector.HandLandmarks) Observation {
	hand := detector.Primary(hands)
	if hand == nil {
		return NoObservation
	}
	return Observed(Classify(hand))
}
