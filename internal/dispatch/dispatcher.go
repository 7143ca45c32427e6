package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/simoneroux/magicbox/internal/config"
	"github.com/simoneroux/magicbox/internal/feedback"
	"github.com/simoneroux/magicbox/internal/logging"
	"github.com/simoneroux/magicbox/internal/reader"
	"github.com/simoneroux/magicbox/internal/services"
	"github.com/simoneroux/magicbox/internal/services/cec"
	"github.com/simoneroux/magicbox/internal/services/mpv"
	"github.com/simoneroux/magicbox/internal/services/sonos"
	"github.com/simoneroux/magicbox/internal/tag"
)

// Transports bundles the external control surfaces the dispatcher drives.
type Transports struct {
	Audio    sonos.Controller
	Display  cec.Controller
	Video    mpv.Player
	Signaler feedback.Signaler
	Reporter *feedback.Reporter
}

// Dispatcher turns parsed tag intents into transport calls. Dispatch is
// serialized: a second scan blocks until the previous intent's side
// effects have fully returned, and shutdown teardown takes the same lock.
type Dispatcher struct {
	mu sync.Mutex

	audio    sonos.Controller
	display  cec.Controller
	video    mpv.Player
	signaler feedback.Signaler
	reporter *feedback.Reporter
	state    *State
	logger   *slog.Logger

	powerOnSettle time.Duration
	inputSettle   time.Duration
	volumeStep    int
	volumeMax     int
}

// New builds a dispatcher from configuration and transports. State may be
// nil, in which case a fresh one is created.
func New(cfg *config.Config, transports Transports, state *State, logger *slog.Logger) (*Dispatcher, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrValidation, "dispatcher", "new", "config required", nil)
	}
	if transports.Audio == nil || transports.Display == nil || transports.Video == nil {
		return nil, services.Wrap(services.ErrValidation, "dispatcher", "new", "audio, display, and video transports required", nil)
	}
	if transports.Signaler == nil {
		transports.Signaler = feedback.NewSignaler(nil, nil)
	}
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		audio:         transports.Audio,
		display:       transports.Display,
		video:         transports.Video,
		signaler:      transports.Signaler,
		reporter:      transports.Reporter,
		state:         state,
		logger:        logging.NewComponentLogger(logger, "dispatcher"),
		powerOnSettle: time.Duration(cfg.Display.PowerOnSettle) * time.Second,
		inputSettle:   time.Duration(cfg.Display.InputSettle) * time.Second,
		volumeStep:    cfg.Speaker.VolumeStep,
		volumeMax:     cfg.Speaker.VolumeMax,
	}, nil
}

// State exposes the playback state shared with the shutdown path.
func (d *Dispatcher) State() *State {
	return d.state
}

// Dispatch handles one tag payload end to end: scan cue, parse, branch on
// the intent class, final success or error cue. No failure inside a branch
// propagates to the caller; the listener loop must survive every scan.
func (d *Dispatcher) Dispatch(ctx context.Context, payload *reader.Payload) {
	d.mu.Lock()
	defer d.mu.Unlock()

	log := logging.WithContext(ctx, d.logger)
	d.signaler.Emit(feedback.KindScan)

	if payload == nil || !payload.HasNDEF {
		log.Warn("tag carries no NDEF payload",
			logging.String(logging.FieldEventType, "invalid_tag"))
		d.reporter.InvalidTag()
		d.signaler.Emit(feedback.KindError)
		return
	}

	intent := tag.Parse(payload.Records)
	if intent.Name != "" {
		d.reporter.Card(intent.Name)
	}
	log.Info("tag parsed",
		logging.String(logging.FieldEventType, "tag_parsed"),
		logging.String("class", intent.Class.String()),
		logging.String("name", intent.Name),
		logging.Bool("shuffle", intent.Shuffle),
		logging.String(logging.FieldCommand, intent.Command.String()))

	var ok bool
	switch intent.Class {
	case tag.ClassVideoStream:
		ok = d.playVideo(ctx, log, intent)
	case tag.ClassAudioStream:
		ok = d.playAudio(ctx, log, intent)
	case tag.ClassControl:
		ok = d.control(ctx, log, intent.Command)
	default:
		log.Info("no supported content on tag",
			logging.String(logging.FieldEventType, "unsupported_tag"))
		d.reporter.UnsupportedTag()
	}

	if ok {
		d.signaler.Emit(feedback.KindSuccess)
	} else {
		d.signaler.Emit(feedback.KindError)
	}
}

// playVideo hands a stream URL to the renderer: current playback is torn
// down, the display woken, then the render process is launched fire and
// forget. Only a failed launch fails the branch; display faults are logged
// and playback proceeds against whatever state the hardware is in.
func (d *Dispatcher) playVideo(ctx context.Context, log *slog.Logger, intent tag.Intent) bool {
	d.stopVideoLocked(ctx, log)
	if err := d.audio.Stop(ctx); err != nil {
		log.Warn("audio stop before video failed", logging.Error(err))
	}
	d.ensureDisplayOn(ctx, log)

	proc, err := d.video.Start(intent.URL)
	if err != nil {
		log.Error("video renderer start failed",
			logging.String("url", intent.URL),
			logging.Error(err))
		d.reporter.Failed(err.Error())
		return false
	}
	d.state.SetVideo(proc)
	log.Info("video playback started",
		logging.String(logging.FieldEventType, "video_started"),
		logging.String("url", intent.URL),
		logging.Int("pid", proc.PID()))
	d.reporter.PlayingVideo(intent.Name)
	return true
}

// playAudio routes a share link to the speaker. The display goes to
// standby so the room's attention follows the music.
func (d *Dispatcher) playAudio(ctx context.Context, log *slog.Logger, intent tag.Intent) bool {
	d.stopVideoLocked(ctx, log)
	d.displayStandby(ctx, log)

	if err := d.audio.ClearQueue(ctx); err != nil {
		log.Warn("queue clear failed", logging.Error(err))
	}
	if err := d.audio.PlayShareLink(ctx, intent.URL); err != nil {
		log.Error("share link playback failed",
			logging.String("url", intent.URL),
			logging.Error(err))
		d.reporter.Failed(err.Error())
		return false
	}
	if err := d.audio.SetShuffle(ctx, intent.Shuffle); err != nil {
		log.Warn("shuffle mode set failed",
			logging.Bool("shuffle", intent.Shuffle),
			logging.Error(err))
	}
	log.Info("audio playback started",
		logging.String(logging.FieldEventType, "audio_started"),
		logging.String("title", intent.Title()),
		logging.Bool("shuffle", intent.Shuffle))
	if intent.Shuffle {
		d.reporter.PlayingShuffled(intent.Title())
	} else {
		d.reporter.Playing(intent.Title())
	}
	return true
}

// control executes one bare command token. The switch is exhaustive over
// the recognized tokens; anything else lands in the default case and is
// reported as unsupported.
func (d *Dispatcher) control(ctx context.Context, log *slog.Logger, command tag.Command) bool {
	switch command {
	case tag.CommandPlay:
		if err := d.audio.Play(ctx); err != nil {
			log.Error("play failed", logging.Error(err))
			d.reporter.Failed(err.Error())
			return false
		}
		d.reporter.Resumed()
		return true
	case tag.CommandStop:
		// Universal stop: attempt both halves, succeed regardless.
		d.stopVideoLocked(ctx, log)
		if err := d.audio.Stop(ctx); err != nil {
			log.Warn("audio stop failed", logging.Error(err))
		}
		d.reporter.Stopped()
		return true
	case tag.CommandNext:
		if err := d.audio.Next(ctx); err != nil {
			log.Error("next track failed", logging.Error(err))
			d.reporter.Failed(err.Error())
			return false
		}
		d.reporter.NextTrack()
		return true
	case tag.CommandPrev:
		if err := d.audio.Previous(ctx); err != nil {
			log.Error("previous track failed", logging.Error(err))
			d.reporter.Failed(err.Error())
			return false
		}
		d.reporter.PreviousTrack()
		return true
	case tag.CommandVolumeUp:
		return d.adjustVolume(ctx, log, d.volumeStep)
	case tag.CommandVolumeDown:
		return d.adjustVolume(ctx, log, -d.volumeStep)
	case tag.CommandTVOn:
		if !d.ensureDisplayOn(ctx, log) {
			d.reporter.Failed("display did not power on")
			return false
		}
		d.reporter.TVOn()
		return true
	case tag.CommandTVOff:
		if !d.displayStandby(ctx, log) {
			d.reporter.Failed("display standby failed")
			return false
		}
		d.reporter.TVStandby()
		return true
	default:
		log.Warn("unrecognized control token",
			logging.String(logging.FieldCommand, command.String()))
		d.reporter.UnsupportedTag()
		return false
	}
}

// adjustVolume moves the speaker volume by delta, clamped to [0, max].
// The set is issued even when the clamp lands on the current level so the
// reported percentage always reflects a completed write.
func (d *Dispatcher) adjustVolume(ctx context.Context, log *slog.Logger, delta int) bool {
	current, err := d.audio.Volume(ctx)
	if err != nil {
		log.Error("volume query failed", logging.Error(err))
		d.reporter.Failed(err.Error())
		return false
	}
	level := min(max(current+delta, 0), d.volumeMax)
	if err := d.audio.SetVolume(ctx, level); err != nil {
		log.Error("volume set failed", logging.Int("level", level), logging.Error(err))
		d.reporter.Failed(err.Error())
		return false
	}
	log.Info("volume adjusted",
		logging.String(logging.FieldEventType, "volume_adjusted"),
		logging.Int("from", current),
		logging.Int("to", level))
	d.reporter.Volume(level, delta > 0)
	return true
}

// stopVideoLocked tears down the recorded render process and sweeps for
// strays. Caller must hold d.mu.
func (d *Dispatcher) stopVideoLocked(ctx context.Context, log *slog.Logger) {
	if proc := d.state.TakeVideo(); proc != nil {
		if err := d.video.Stop(ctx, proc); err != nil {
			log.Warn("video stop failed", logging.Int("pid", proc.PID()), logging.Error(err))
		}
	}
	if err := d.video.Sweep(ctx); err != nil {
		log.Debug("stray renderer sweep failed", logging.Error(err))
	}
}

// ensureDisplayOn wakes the display and switches it to this device's
// input, returning whether the display is believed on afterwards. The
// power-on step is skipped when the cached or queried state already
// reports on; the input switch always runs. Settle sleeps are plain
// blocking waits so the hardware has caught up before the next command.
func (d *Dispatcher) ensureDisplayOn(ctx context.Context, log *slog.Logger) bool {
	on, known := d.state.TVPower()
	if !known {
		queried, err := d.display.PowerStatus(ctx)
		if err != nil {
			log.Warn("display power query failed", logging.Error(err))
		} else {
			on, known = queried, true
		}
	}

	if !known || !on {
		if err := d.display.PowerOn(ctx); err != nil {
			log.Warn("display power on failed", logging.Error(err))
			on = false
		} else {
			on = true
		}
		time.Sleep(d.powerOnSettle)
	}

	if err := d.display.SwitchInput(ctx); err != nil {
		log.Warn("display input switch failed", logging.Error(err))
	}
	time.Sleep(d.inputSettle)

	if on {
		d.state.SetTVPower(true)
	} else {
		d.state.ClearTVPower()
	}
	return on
}

// displayStandby puts the display to sleep. The power cache is always
// invalidated: standby reports acceptance, not the resulting state.
func (d *Dispatcher) displayStandby(ctx context.Context, log *slog.Logger) bool {
	err := d.display.Standby(ctx)
	d.state.ClearTVPower()
	if err != nil {
		log.Warn("display standby failed", logging.Error(err))
		return false
	}
	return true
}

// Teardown releases playback resources on shutdown: stop video, stop
// audio, display to standby. Each step runs under its own timeout and a
// failure never blocks the remaining steps. Holding the dispatch lock
// guarantees no intent is mid-flight while resources disappear.
func (d *Dispatcher) Teardown(timeout time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	step := func(name string, fn func(ctx context.Context) error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.logger.Warn("teardown step failed",
				logging.String("step", name),
				logging.Error(err))
		} else {
			d.logger.Debug("teardown step complete", logging.String("step", name))
		}
	}

	step("video stop", func(ctx context.Context) error {
		d.stopVideoLocked(ctx, d.logger)
		return nil
	})
	step("audio stop", d.audio.Stop)
	step("display standby", func(ctx context.Context) error {
		err := d.display.Standby(ctx)
		d.state.ClearTVPower()
		return err
	})
}
