package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands caps how many hands Detect returns (default: 1).
	MaxHands int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{MaxHands: 1}
}
