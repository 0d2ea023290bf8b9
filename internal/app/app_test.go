package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gocv.io/x/gocv"

	"github.com/ayusman/simonsays/internal/capture"
	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
)

const frameStep = 100 * time.Millisecond

type constPicker int

func (p constPicker) Intn(int) int { return int(p) }

// Instruction indices: 0-2 are unsanctioned, 3-5 are "Simon says".
const (
	plainRock     constPicker = 0
	simonSaysRock constPicker = 3
)

// stepRenderer records what it is shown and advances the fake clock one
// frame per pump.
type stepRenderer struct {
	clock     interface{ Advance(time.Duration) }
	states    []game.DisplayState
	holds     []time.Duration
	quitAfter int
	closed    bool
}

func (r *stepRenderer) Render(_ *gocv.Mat, _ *detector.HandLandmarks, s game.DisplayState) error {
	r.states = append(r.states, s)
	return nil
}

func (r *stepRenderer) Wait(ctx context.Context, d time.Duration) bool {
	if d == frameWait {
		r.clock.Advance(frameStep)
	} else {
		r.holds = append(r.holds, d)
	}
	if ctx.Err() != nil {
		return true
	}
	return r.quitAfter > 0 && len(r.states) >= r.quitAfter
}

func (r *stepRenderer) Close() error {
	r.closed = true
	return nil
}

func (r *stepRenderer) last() game.DisplayState {
	return r.states[len(r.states)-1]
}

type recordingPublisher struct {
	states []game.DisplayState
	frames [][]byte
}

func (p *recordingPublisher) Publish(s game.DisplayState, frame []byte) {
	p.states = append(p.states, s)
	p.frames = append(p.frames, frame)
}

type fixture struct {
	camera   *capture.MockCamera
	detector *detector.MockDetector
	renderer *stepRenderer
	frame    gocv.Mat
}

func newFixture(t *testing.T, frames int, loop bool) *fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	f := &fixture{
		detector: detector.NewMockDetector(),
		frame:    gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3),
	}
	t.Cleanup(func() { f.frame.Close() })

	mats := make([]*gocv.Mat, frames)
	for i := range mats {
		mats[i] = &f.frame
	}
	f.camera = capture.NewMockCamera(mats, loop)
	return f
}

func (f *fixture) newApp(t *testing.T, picker game.Picker, pub Publisher, encode bool) *App {
	t.Helper()
	clock := clockwork.NewFakeClock()
	f.renderer = &stepRenderer{clock: clock}

	deps := Deps{
		Camera:   f.camera,
		Detector: f.detector,
		Renderer: f.renderer,
		Clock:    clock,
		Picker:   picker,
	}
	if pub != nil {
		deps.Publisher = pub
	}

	a, err := New(Config{
		HoldTime:        time.Second,
		InstructionHold: 5 * time.Second,
		TerminalHold:    3 * time.Second,
		EncodeFrames:    encode,
	}, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Config{}, Deps{}); err == nil {
		t.Error("expected an error without collaborators")
	}

	a, err := New(Config{}, Deps{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Renderer: &stepRenderer{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.config.TerminalHold != DefaultTerminalHold {
		t.Errorf("TerminalHold = %v, want %v", a.config.TerminalHold, DefaultTerminalHold)
	}
	if a.SessionID() == "" {
		t.Error("SessionID() should not be empty")
	}
}

func TestRun_EmptySourceEndsCleanly(t *testing.T) {
	a, err := New(Config{}, Deps{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Renderer: &stepRenderer{},
		Clock:    clockwork.NewFakeClock(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v, want nil at end of stream", err)
	}
	if got := a.State().Round; got != 1 {
		t.Errorf("State().Round = %d, want 1", got)
	}
}

// blankCamera yields only empty frames.
type blankCamera struct{ reads int }

func (c *blankCamera) Open() error  { return nil }
func (c *blankCamera) Close() error { return nil }
func (c *blankCamera) IsOpen() bool { return true }

func (c *blankCamera) ReadFrame() (*gocv.Mat, error) {
	c.reads++
	return nil, capture.ErrEmptyFrame
}

// pumpRenderer quits after a fixed number of pumps.
type pumpRenderer struct {
	pumps     int
	quitAfter int
}

func (r *pumpRenderer) Render(*gocv.Mat, *detector.HandLandmarks, game.DisplayState) error {
	return nil
}

func (r *pumpRenderer) Wait(context.Context, time.Duration) bool {
	r.pumps++
	return r.pumps >= r.quitAfter
}

func (r *pumpRenderer) Close() error { return nil }

func TestRun_EmptyFramesPumpRenderer(t *testing.T) {
	cam := &blankCamera{}
	r := &pumpRenderer{quitAfter: 4}
	a, err := New(Config{}, Deps{
		Camera:   cam,
		Detector: detector.NewMockDetector(),
		Renderer: r,
		Clock:    clockwork.NewFakeClock(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.pumps != 4 || cam.reads != 4 {
		t.Errorf("pumps = %d, reads = %d; want one pump per empty frame (4)", r.pumps, cam.reads)
	}
}

func TestRun_EndOfStream(t *testing.T) {
	f := newFixture(t, 3, false)
	a := f.newApp(t, simonSaysRock, nil, false)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.renderer.states) != 3 {
		t.Errorf("rendered %d frames, want 3", len(f.renderer.states))
	}
	if f.detector.Calls() != 3 {
		t.Errorf("detector called %d times, want 3", f.detector.Calls())
	}
	if f.camera.IsOpen() {
		t.Error("camera should be closed after Run")
	}
	if !f.renderer.closed {
		t.Error("renderer should be closed after Run")
	}
	if len(f.renderer.holds) != 0 {
		t.Error("terminal hold should not run for an unfinished game")
	}
}

func TestRun_Win(t *testing.T) {
	f := newFixture(t, 1, true)
	f.detector.SetHands([]detector.HandLandmarks{detector.RockLandmarks()})
	a := f.newApp(t, simonSaysRock, nil, false)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	final := f.renderer.last()
	if final.Banner != game.BannerWin {
		t.Fatalf("final banner = %q, want WIN (state %+v)", final.Banner, final)
	}
	if final.Score != game.WinScore {
		t.Errorf("final score = %d, want %d", final.Score, game.WinScore)
	}
	if final.Round != game.WinScore {
		t.Errorf("won on round %d, want %d", final.Round, game.WinScore)
	}
	if len(f.renderer.holds) != 1 || f.renderer.holds[0] != 3*time.Second {
		t.Errorf("terminal holds = %v, want [3s]", f.renderer.holds)
	}
	if a.State() != final {
		t.Error("State() should match the last rendered snapshot")
	}
}

func TestRun_Lose(t *testing.T) {
	f := newFixture(t, 1, true)
	f.detector.SetHands([]detector.HandLandmarks{detector.RockLandmarks()})
	a := f.newApp(t, plainRock, nil, false)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	final := f.renderer.last()
	if final.Banner != game.BannerLose {
		t.Fatalf("final banner = %q, want LOSE", final.Banner)
	}
	if final.Result != game.MsgSimonDidntSay {
		t.Errorf("result = %q, want %q", final.Result, game.MsgSimonDidntSay)
	}
	if len(f.renderer.holds) != 1 {
		t.Errorf("terminal holds = %v, want one", f.renderer.holds)
	}
}

func TestRun_PlayerQuit(t *testing.T) {
	f := newFixture(t, 1, true)
	a := f.newApp(t, simonSaysRock, nil, false)
	f.renderer.quitAfter = 5

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.renderer.states) != 5 {
		t.Errorf("rendered %d frames, want 5", len(f.renderer.states))
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	f := newFixture(t, 1, true)
	a := f.newApp(t, simonSaysRock, nil, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.renderer.states) != 0 {
		t.Errorf("rendered %d frames after cancellation, want 0", len(f.renderer.states))
	}
}

func TestRun_DetectorErrorIsNoHand(t *testing.T) {
	f := newFixture(t, 30, false)
	f.detector.SetHands([]detector.HandLandmarks{detector.RockLandmarks()})
	f.detector.SetError(errors.New("service crashed"))
	a := f.newApp(t, simonSaysRock, nil, false)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	final := f.renderer.last()
	if final.Gesture != game.WaitingText || final.Score != 0 {
		t.Errorf("detector errors should never lock a gesture, got %+v", final)
	}
}

func TestRun_Publishes(t *testing.T) {
	f := newFixture(t, 4, false)
	pub := &recordingPublisher{}
	a := f.newApp(t, simonSaysRock, pub, true)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(pub.states) != 4 {
		t.Fatalf("published %d snapshots, want 4", len(pub.states))
	}
	for i, jpeg := range pub.frames {
		if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
			t.Errorf("frame %d is not a JPEG", i)
		}
	}
}

func TestPublishers_FanOut(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	Publishers{a, b}.Publish(game.DisplayState{Score: 1}, []byte{1})

	for i, p := range []*recordingPublisher{a, b} {
		if len(p.states) != 1 || p.states[0].Score != 1 || len(p.frames[0]) != 1 {
			t.Errorf("publisher %d did not receive the snapshot", i)
		}
	}
}
