package game

import "fmt"

// WaitingText is the gesture label before anything locks in a round.
const WaitingText = "Waiting..."

// Banner marks a finished game.
type Banner string

const (
	BannerNone Banner = ""
	BannerWin  Banner = "WIN"
	BannerLose Banner = "LOSE"
)

// Text returns the banner as drawn on screen.
func (b Banner) Text() string {
	switch b {
	case BannerWin:
		return "YOU WIN!"
	case BannerLose:
		return "YOU LOSE"
	default:
		return ""
	}
}

// DisplayState is the read-only snapshot handed to renderers each frame.
type DisplayState struct {
	Round       int     `json:"round"`
	Instruction string  `json:"instruction"`
	Gesture     string  `json:"gesture"`
	Result      string  `json:"result"`
	Outcome     Outcome `json:"outcome"`
	Score       int     `json:"score"`
	WinScore    int     `json:"win_score"`
	Banner      Banner  `json:"banner"`
}

// Terminal reports whether the game has ended.
func (d DisplayState) Terminal() bool {
	return d.Banner != BannerNone
}

// InstructionText is the instruction line.
func (d DisplayState) InstructionText() string {
	return "Instruction: " + d.Instruction
}

// ScoreText is the score line.
func (d DisplayState) ScoreText() string {
	return fmt.Sprintf("Score: %d/%d", d.Score, d.WinScore)
}

func bannerFor(s Status) Banner {
	switch s {
	case Won:
		return BannerWin
	case Lost:
		return BannerLose
	default:
		return BannerNone
	}
}
