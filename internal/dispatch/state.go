package dispatch

import (
	"sync"

	"github.com/simoneroux/magicbox/internal/services/mpv"
)

// State is the process-wide playback state: the live video render process,
// if any, and the last known display power state. Both the dispatch path
// and the shutdown path mutate it, so every access goes through the mutex.
type State struct {
	mu      sync.Mutex
	video   *mpv.Process
	tvPower *bool
}

// NewState returns an empty state: no video playing, display power unknown.
func NewState() *State {
	return &State{}
}

// Video returns the recorded render process handle, nil when none.
func (s *State) Video() *mpv.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// SetVideo records the handle of a freshly launched render process.
func (s *State) SetVideo(proc *mpv.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.video = proc
}

// TakeVideo clears and returns the recorded handle so exactly one caller
// owns the teardown of that process.
func (s *State) TakeVideo() *mpv.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc := s.video
	s.video = nil
	return proc
}

// TVPower reports the cached display power state. known is false when the
// cache is cold or was invalidated.
func (s *State) TVPower() (on bool, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tvPower == nil {
		return false, false
	}
	return *s.tvPower, true
}

// SetTVPower records the display power state.
func (s *State) SetTVPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tvPower = &on
}

// ClearTVPower invalidates the cache, forcing the next display sequence to
// query real hardware state.
func (s *State) ClearTVPower() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tvPower = nil
}
