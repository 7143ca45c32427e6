package feedback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"github.com/simoneroux/magicbox/internal/config"
	"github.com/simoneroux/magicbox/internal/logging"
)

// Kind identifies one of the audible cues the box can emit.
type Kind int

const (
	// KindSuccess confirms a completed action.
	KindSuccess Kind = iota
	// KindError signals a failed action or an unusable tag.
	KindError
	// KindInfo marks lifecycle transitions such as startup and shutdown.
	KindInfo
	// KindScan acknowledges that a tag was detected, before any parsing.
	KindScan
)

// String returns the cue name used in log records.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindInfo:
		return "info"
	case KindScan:
		return "scan"
	default:
		return "unknown"
	}
}

type cue struct {
	freq     int
	duration time.Duration
}

// cueFor maps each cue kind to its tone. Frequencies and durations are part of
// the box's audible vocabulary; changing them changes what users have learned
// to listen for.
func cueFor(kind Kind) cue {
	switch kind {
	case KindSuccess:
		return cue{freq: 880, duration: 200 * time.Millisecond}
	case KindError:
		return cue{freq: 220, duration: 300 * time.Millisecond}
	case KindScan:
		return cue{freq: 660, duration: 100 * time.Millisecond}
	default:
		return cue{freq: 440, duration: 200 * time.Millisecond}
	}
}

// toneGain attenuates the raw sine wave to half amplitude so cues stay
// audible without startling anyone.
const toneGain = -0.5

// Signaler plays short audio cues that acknowledge scans and surface
// outcomes without requiring a screen.
type Signaler interface {
	// Emit schedules the cue and returns immediately. Playback failures are
	// logged, never propagated; feedback must not stall dispatch.
	Emit(kind Kind)
	// EmitAndWait plays the cue and blocks until it finishes or the timeout
	// elapses. Used on shutdown so the goodbye tone is heard before exit.
	EmitAndWait(kind Kind, timeout time.Duration)
}

// NewSignaler builds a tone signaler from configuration. When feedback is
// disabled a no-op implementation is returned so callers never branch.
func NewSignaler(cfg *config.Config, logger *slog.Logger) Signaler {
	if cfg == nil || !cfg.Feedback.Enabled {
		return noopSignaler{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &toneSignaler{
		sampleRate: beep.SampleRate(cfg.Feedback.SampleRate),
		logger:     logger,
	}
}

type toneSignaler struct {
	sampleRate beep.SampleRate
	logger     *slog.Logger

	initOnce sync.Once
	initErr  error
}

// ensureSpeaker initializes the audio device on first use. Opening the
// device at construction time would fail the whole daemon on boxes without
// a sound card even though tones are best-effort.
func (s *toneSignaler) ensureSpeaker() error {
	s.initOnce.Do(func() {
		s.initErr = speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10))
	})
	return s.initErr
}

func (s *toneSignaler) tone(kind Kind) (beep.Streamer, error) {
	c := cueFor(kind)
	osc, err := generators.SinTone(s.sampleRate, c.freq)
	if err != nil {
		return nil, err
	}
	return &effects.Gain{
		Streamer: beep.Take(s.sampleRate.N(c.duration), osc),
		Gain:     toneGain,
	}, nil
}

func (s *toneSignaler) Emit(kind Kind) {
	if err := s.ensureSpeaker(); err != nil {
		s.logger.Warn("audio cue unavailable",
			logging.String("cue", kind.String()),
			logging.Error(err))
		return
	}
	streamer, err := s.tone(kind)
	if err != nil {
		s.logger.Warn("audio cue synthesis failed",
			logging.String("cue", kind.String()),
			logging.Error(err))
		return
	}
	speaker.Play(streamer)
}

func (s *toneSignaler) EmitAndWait(kind Kind, timeout time.Duration) {
	if err := s.ensureSpeaker(); err != nil {
		s.logger.Warn("audio cue unavailable",
			logging.String("cue", kind.String()),
			logging.Error(err))
		return
	}
	streamer, err := s.tone(kind)
	if err != nil {
		s.logger.Warn("audio cue synthesis failed",
			logging.String("cue", kind.String()),
			logging.Error(err))
		return
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

type noopSignaler struct{}

func (noopSignaler) Emit(Kind) {}

func (noopSignaler) EmitAndWait(Kind, time.Duration) {}
