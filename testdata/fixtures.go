// Package testdata builds synthetic camera frames for tests.
package testdata

import (
	"gocv.io/x/gocv"
)

// Frame dimensions match the default camera settings.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// NewFrame returns a solid grey BGR frame. The caller must close it.
func NewFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
}

// Frames returns n frames and a function that closes all of them.
func Frames(n int) ([]*gocv.Mat, func()) {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		f := NewFrame()
		frames[i] = &f
	}
	return frames, func() {
		for _, f := range frames {
			f.Close()
		}
	}
}
