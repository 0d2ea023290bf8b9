package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/capture"
	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
	"github.com/ayusman/simonsays/internal/gesture"
	"github.com/ayusman/simonsays/internal/render"
)

// Run plays one game until it is won or lost, the player quits, the frame
// source runs out, or ctx is cancelled. Only a failure to open or read the
// source is returned as an error.
//
// Each iteration:
// 1. Read a frame
// 2. Detect hands (a detector failure counts as no hand)
// 3. Step the controller with the observation and the clock's time
// 4. Render and publish the snapshot
// 5. Pump the renderer for a quit request
// 6. On a terminal state, hold the final frame and stop
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer a.shutdown()

	ctrl := game.NewController(game.Config{
		HoldTime:        a.config.HoldTime,
		InstructionHold: a.config.InstructionHold,
		Picker:          a.picker,
		Listener:        a.listener,
	}, a.clock.Now())
	a.setState(ctrl.State())

	log.Info().Str("session", a.sessionID).Msg("game started")

	for {
		if ctx.Err() != nil {
			log.Info().Msg("game interrupted")
			return nil
		}

		frame, err := a.camera.ReadFrame()
		switch {
		case errors.Is(err, capture.ErrEndOfStream):
			log.Info().Msg("frame source exhausted")
			return nil
		case errors.Is(err, capture.ErrEmptyFrame):
			log.Debug().Msg("skipping empty frame")
			if a.renderer.Wait(ctx, frameWait) {
				log.Info().Msg("player quit")
				return nil
			}
			continue
		case err != nil:
			return fmt.Errorf("failed to read frame: %w", err)
		}

		state := a.step(ctrl, frame)

		if a.renderer.Wait(ctx, frameWait) {
			log.Info().Msg("player quit")
			return nil
		}

		if state.Terminal() {
			a.renderer.Wait(ctx, a.config.TerminalHold)
			return nil
		}
	}
}

// step processes one frame and closes it.
func (a *App) step(ctrl *game.Controller, frame *gocv.Mat) game.DisplayState {
	defer frame.Close()

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Warn().Err(err).Msg("hand detection failed")
		hands = nil
	}

	state := ctrl.Step(gesture.Observe(hands), a.clock.Now())
	hand := detector.Primary(hands)

	a.setState(state)
	a.publish(frame, hand, state)

	if err := a.renderer.Render(frame, hand, state); err != nil {
		log.Warn().Err(err).Msg("render failed")
	}

	return state
}

func (a *App) publish(frame *gocv.Mat, hand *detector.HandLandmarks, state game.DisplayState) {
	if a.publisher == nil {
		return
	}

	var jpeg []byte
	if a.config.EncodeFrames {
		jpeg = encodeAnnotated(frame, hand, state)
	}
	a.publisher.Publish(state, jpeg)
}

// encodeAnnotated returns a JPEG of frame with the overlay drawn on a copy.
func encodeAnnotated(frame *gocv.Mat, hand *detector.HandLandmarks, state game.DisplayState) []byte {
	if frame == nil || frame.Empty() {
		return nil
	}

	annotated := frame.Clone()
	defer annotated.Close()
	render.Annotate(&annotated, hand, state)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, annotated)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode frame")
		return nil
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...)
}
