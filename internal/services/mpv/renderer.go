package mpv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/simoneroux/magicbox/internal/services"
)

// Player defines the video renderer behaviour required by the dispatcher.
type Player interface {
	Start(url string) (*Process, error)
	Stop(ctx context.Context, proc *Process) error
	Sweep(ctx context.Context) error
}

// Process is the handle for one launched renderer. The wait goroutine owns
// the underlying Wait call; consumers only signal and watch Done.
type Process struct {
	pid  int
	done chan struct{}

	mu      sync.Mutex
	waitErr error
}

// PID returns the renderer's process ID.
func (p *Process) PID() int {
	return p.pid
}

// Done is closed once the renderer process has been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Finished reports whether the renderer has already exited.
func (p *Process) Finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Renderer launches and tears down fullscreen video playback processes.
type Renderer struct {
	binary      string
	processName string
	stopGrace   time.Duration
}

// New constructs a renderer.
func New(binary, processName string, stopGraceSeconds int) (*Renderer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("video binary required")
	}
	processName = strings.TrimSpace(processName)
	if processName == "" {
		return nil, errors.New("video process name required")
	}
	grace := time.Duration(stopGraceSeconds) * time.Second
	if grace <= 0 {
		grace = 3 * time.Second
	}
	return &Renderer{binary: binary, processName: processName, stopGrace: grace}, nil
}

// Start launches fullscreen playback of the given URL and returns without
// waiting for it. The process runs in its own group so Stop can take down
// any children the player forks.
func (r *Renderer) Start(url string) (*Process, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, services.Wrap(services.ErrValidation, "mpv", "start", "url required", nil)
	}

	cmd := exec.Command(r.binary, "--fs", url) //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "mpv", "start", "launch renderer", err)
	}

	proc := &Process{pid: cmd.Process.Pid, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		proc.mu.Lock()
		proc.waitErr = err
		proc.mu.Unlock()
		close(proc.done)
	}()
	return proc, nil
}

// Stop terminates a launched renderer: graceful signal first, forced kill of
// the whole process group once the grace period lapses. A renderer that has
// already exited is not an error.
func (r *Renderer) Stop(ctx context.Context, proc *Process) error {
	if proc == nil || proc.Finished() {
		return nil
	}

	if err := unix.Kill(-proc.pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return services.Wrap(services.ErrExternalTool, "mpv", "stop", "signal renderer", err)
	}

	grace := time.NewTimer(r.stopGrace)
	defer grace.Stop()

	select {
	case <-proc.done:
		return nil
	case <-ctx.Done():
	case <-grace.C:
	}

	if err := unix.Kill(-proc.pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return services.Wrap(services.ErrExternalTool, "mpv", "stop", "force kill renderer", err)
	}

	// SIGKILL cannot be ignored; the reaper goroutine closes done shortly.
	killWait := time.NewTimer(2 * time.Second)
	defer killWait.Stop()
	select {
	case <-proc.done:
		return nil
	case <-killWait.C:
		return services.Wrap(services.ErrTimeout, "mpv", "stop", fmt.Sprintf("renderer pid %d did not exit after kill", proc.pid), nil)
	}
}

// Sweep kills stray renderer processes by name. A sweep finding nothing to
// kill is a success.
func (r *Renderer) Sweep(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "pkill", "-x", r.processName)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// pkill exits 1 when no processes matched.
		return nil
	}
	return services.Wrap(services.ErrExternalTool, "mpv", "sweep", "pkill stray renderers", err)
}
