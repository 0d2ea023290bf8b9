package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
)

var (
	red    = color.RGBA{R: 255, A: 255}
	green  = color.RGBA{G: 255, A: 255}
	blue   = color.RGBA{B: 255, A: 255}
	yellow = color.RGBA{R: 255, G: 255, A: 255}
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate draws the hand skeleton and the game state onto frame in place.
func Annotate(frame *gocv.Mat, hand *detector.HandLandmarks, state game.DisplayState) {
	if frame == nil || frame.Empty() {
		return
	}

	if hand.Valid() {
		drawHand(frame, hand)
	}

	gocv.PutText(frame, state.InstructionText(), image.Pt(10, 40), gocv.FontHersheySimplex, 0.9, red, 2)
	gocv.PutText(frame, state.Gesture, image.Pt(10, 80), gocv.FontHersheySimplex, 0.8, blue, 2)

	if state.Result != "" {
		gocv.PutText(frame, state.Result, image.Pt(10, 120), gocv.FontHersheySimplex, 1.0, resultColor(state.Outcome), 3)
	}

	gocv.PutText(frame, state.ScoreText(), image.Pt(10, 170), gocv.FontHersheySimplex, 1.0, yellow, 2)

	if state.Terminal() {
		gocv.PutText(frame, state.Banner.Text(), image.Pt(200, 250), gocv.FontHersheySimplex, 2.0, green, 5)
	}
}

func resultColor(o game.Outcome) color.RGBA {
	if o == game.Correct {
		return green
	}
	return red
}

// drawHand scales normalized landmarks to the frame and draws the skeleton.
func drawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	w, h := frame.Cols(), frame.Rows()
	pt := func(i int) image.Point {
		p := hand.Points[i]
		return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, pt(c[0]), pt(c[1]), white, 2)
	}
	for i := range hand.Points {
		gocv.Circle(frame, pt(i), 4, red, -1)
	}
}
