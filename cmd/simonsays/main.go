package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/simonsays/internal/app"
	"github.com/ayusman/simonsays/internal/capture"
	"github.com/ayusman/simonsays/internal/config"
	"github.com/ayusman/simonsays/internal/detector"
	"github.com/ayusman/simonsays/internal/game"
	"github.com/ayusman/simonsays/internal/render"
	"github.com/ayusman/simonsays/internal/server"
	"github.com/ayusman/simonsays/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simonsays: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("simonsays failed")
	}
}

func setupLogging(cfg config.LogConfig) {
	if !strings.EqualFold(cfg.Format, "json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clock := clockwork.NewRealClock()
	session := uuid.NewString()

	renderer, err := newRenderer(cfg.Display.Mode, clock)
	if err != nil {
		return err
	}

	var (
		listeners  game.Listeners
		publishers app.Publishers
		hub        *server.Hub
		srvDone    chan struct{}
	)

	deps := app.Deps{
		Camera: capture.NewCamera(capture.Config{
			Source: cfg.Camera.Source,
			Mirror: cfg.Camera.Mirror,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Camera.FPS,
		}),
		Detector: newDetector(cfg.Detector),
		Renderer: renderer,
		Clock:    clock,
	}
	if cfg.Game.Seed != 0 {
		deps.Picker = rand.New(rand.NewSource(cfg.Game.Seed))
	}

	if cfg.Server.Addr != "" {
		metrics := server.NewMetrics()
		listeners = append(listeners, metrics)
		hub = server.NewHub(session, clock)
		publishers = append(publishers, hub)
		srv := server.New(server.Config{Hub: hub, Metrics: metrics})
		srvDone = make(chan struct{})
		go func() {
			defer close(srvDone)
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("spectator server failed")
			}
		}()
	}

	var t *tray.Tray
	if cfg.Display.Mode == config.DisplayHeadless && cfg.Tray.Enabled {
		t = tray.New()
		t.OnQuit(cancel)
		publishers = append(publishers, t)
	}

	if len(listeners) > 0 {
		deps.Listener = listeners
	}
	if len(publishers) > 0 {
		deps.Publisher = publishers
	}

	a, err := app.New(app.Config{
		SessionID:       session,
		HoldTime:        cfg.Game.HoldTime,
		InstructionHold: cfg.Game.InstructionHold,
		TerminalHold:    cfg.Game.TerminalHold,
		EncodeFrames:    hub != nil,
	}, deps)
	if err != nil {
		return err
	}

	err = play(ctx, a, t)

	cancel()
	if srvDone != nil {
		<-srvDone
	}
	return err
}

// play runs the game, beside the tray when there is one.
func play(ctx context.Context, a *app.App, t *tray.Tray) error {
	if t == nil {
		return a.Run(ctx)
	}

	// The tray owns the main thread; the game runs beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	cancel()
	return <-errCh
}

func newRenderer(mode string, clock clockwork.Clock) (render.Renderer, error) {
	switch mode {
	case config.DisplayWindow:
		return render.NewWindow(), nil
	case config.DisplayConsole:
		return render.NewConsole(os.Stdout, clock), nil
	case config.DisplayHeadless:
		return render.NewHeadless(clock), nil
	default:
		return nil, errors.New("unknown display mode " + mode)
	}
}

func newDetector(cfg config.DetectorConfig) detector.Detector {
	dc := detector.DefaultConfig()
	if cfg.MaxHands > 0 {
		dc.MaxHands = cfg.MaxHands
	}
	mp, err := detector.NewMediaPipeDetector(dc)
	if err != nil {
		log.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
		return detector.NewMockDetector()
	}
	log.Info().Msg("using MediaPipe hand detection")
	return mp
}
