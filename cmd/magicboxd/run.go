package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/simoneroux/magicbox/internal/config"
	"github.com/simoneroux/magicbox/internal/daemon"
	"github.com/simoneroux/magicbox/internal/deps"
	"github.com/simoneroux/magicbox/internal/dispatch"
	"github.com/simoneroux/magicbox/internal/feedback"
	"github.com/simoneroux/magicbox/internal/logging"
	"github.com/simoneroux/magicbox/internal/reader"
	"github.com/simoneroux/magicbox/internal/services/cec"
	"github.com/simoneroux/magicbox/internal/services/mpv"
	"github.com/simoneroux/magicbox/internal/services/sonos"
)

const setupCueWait = time.Second

type transports struct {
	audio   *sonos.Client
	display *cec.Client
	video   *mpv.Renderer
}

func buildTransports(cfg *config.Config, room string) (transports, error) {
	audio, err := sonos.New(cfg.Speaker.Binary, room, cfg.Speaker.CommandTimeout)
	if err != nil {
		return transports{}, fmt.Errorf("speaker transport: %w", err)
	}
	display, err := cec.New(cfg.Display.Binary, cfg.Display.CommandTimeout)
	if err != nil {
		return transports{}, fmt.Errorf("display transport: %w", err)
	}
	video, err := mpv.New(cfg.Video.Binary, cfg.Video.ProcessName, cfg.Video.StopGrace)
	if err != nil {
		return transports{}, fmt.Errorf("video renderer: %w", err)
	}
	return transports{audio: audio, display: display, video: video}, nil
}

func logDependencyStatus(logger *slog.Logger, statuses []deps.Status) {
	for _, status := range statuses {
		if status.Available {
			continue
		}
		if status.Optional {
			logger.Debug("optional dependency unavailable",
				logging.String("dependency", status.Name),
				logging.String("detail", status.Detail))
			continue
		}
		logger.Warn("external dependency missing",
			logging.String(logging.FieldEventType, "dependency_missing"),
			logging.String("dependency", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldErrorHint, "commands using it will fail until it is installed"))
	}
}

func runDaemon(parent context.Context, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return fmt.Errorf("room name is required")
	}

	// A .env next to the binary may carry MAGICBOX_TV_IP / MAGICBOX_CONFIG.
	_ = godotenv.Load()

	cfg, cfgPath, cfgExists, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Info("magicbox starting",
		logging.String(logging.FieldRoom, room),
		logging.String("config_path", cfgPath),
		logging.Bool("config_found", cfgExists))

	logDependencyStatus(logger, deps.Check(cfg))

	reporter := feedback.NewReporter()
	signaler := feedback.NewSignaler(cfg, logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP)
	defer stop()

	dev, err := reader.Open(cfg.Reader.Devices, logger)
	if err != nil {
		reporter.SetupFailed()
		signaler.EmitAndWait(feedback.KindError, setupCueWait)
		return err
	}

	wired, err := buildTransports(cfg, room)
	if err != nil {
		_ = dev.Close()
		return err
	}

	dispatcher, err := dispatch.New(cfg, dispatch.Transports{
		Audio:    wired.audio,
		Display:  wired.display,
		Video:    wired.video,
		Signaler: signaler,
		Reporter: reporter,
	}, nil, logger)
	if err != nil {
		_ = dev.Close()
		return fmt.Errorf("build dispatcher: %w", err)
	}

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		Room:       room,
		Reader:     dev,
		Dispatcher: dispatcher,
		Signaler:   signaler,
		Reporter:   reporter,
		Logger:     logger,
	})
	if err != nil {
		_ = dev.Close()
		return fmt.Errorf("build daemon: %w", err)
	}

	if err := d.Start(ctx); err != nil {
		_ = dev.Close()
		return err
	}

	reporter.Ready()
	fmt.Fprintln(os.Stdout, renderBanner(bannerInfo{
		Room:    room,
		Display: cfg.Display.Address,
		Reader:  dev.Connstring(),
	}))
	reporter.ScanHint()
	signaler.Emit(feedback.KindInfo)

	<-ctx.Done()
	d.Stop()
	return nil
}
