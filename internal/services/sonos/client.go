package sonos

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/simoneroux/magicbox/internal/services"
)

// Controller defines the speaker behaviour required by the dispatcher.
type Controller interface {
	Play(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Volume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, level int) error
	ClearQueue(ctx context.Context) error
	PlayShareLink(ctx context.Context, url string) error
	SetShuffle(ctx context.Context, enabled bool) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the soco-cli speaker control tool. Every operation targets the
// single room endpoint fixed at construction.
type Client struct {
	binary  string
	room    string
	timeout time.Duration
	exec    Executor
}

// New constructs a speaker client for the given room.
func New(binary, room string, commandTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("speaker binary required")
	}
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, errors.New("room name required")
	}
	client := &Client{
		binary:  binary,
		room:    room,
		timeout: time.Duration(commandTimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Room returns the speaker endpoint this client addresses.
func (c *Client) Room() string {
	return c.room
}

// Play resumes queue playback.
func (c *Client) Play(ctx context.Context) error {
	_, err := c.run(ctx, "play")
	return err
}

// Stop halts playback.
func (c *Client) Stop(ctx context.Context) error {
	_, err := c.run(ctx, "stop")
	return err
}

// Next advances to the next queue entry.
func (c *Client) Next(ctx context.Context) error {
	_, err := c.run(ctx, "next")
	return err
}

// Previous returns to the previous queue entry.
func (c *Client) Previous(ctx context.Context) error {
	_, err := c.run(ctx, "previous")
	return err
}

// Volume queries the current speaker volume.
func (c *Client) Volume(ctx context.Context) (int, error) {
	lines, err := c.run(ctx, "volume")
	if err != nil {
		return 0, err
	}
	for _, line := range lines {
		if level, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil {
			return level, nil
		}
	}
	return 0, services.Wrap(services.ErrExternalTool, "sonos", "volume", fmt.Sprintf("no numeric volume in output %q", strings.Join(lines, " / ")), nil)
}

// SetVolume sets the speaker volume to an absolute level.
func (c *Client) SetVolume(ctx context.Context, level int) error {
	_, err := c.run(ctx, "volume", strconv.Itoa(level))
	return err
}

// ClearQueue empties the speaker's play queue.
func (c *Client) ClearQueue(ctx context.Context) error {
	_, err := c.run(ctx, "clear_queue")
	return err
}

// PlayShareLink submits a streaming-service share link for playback.
func (c *Client) PlayShareLink(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return services.Wrap(services.ErrValidation, "sonos", "play_sharelink", "url required", nil)
	}
	_, err := c.run(ctx, "play_sharelink", url)
	return err
}

// SetShuffle switches shuffle mode on or off.
func (c *Client) SetShuffle(ctx context.Context, enabled bool) error {
	mode := "off"
	if enabled {
		mode = "on"
	}
	_, err := c.run(ctx, "shuffle", mode)
	return err
}

func (c *Client) run(ctx context.Context, args ...string) ([]string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	full := append([]string{c.room}, args...)
	var lines []string
	err := c.exec.Run(runCtx, c.binary, full, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	})
	if err != nil {
		detail := tailOutput(lines)
		return lines, services.Wrap(services.ErrExternalTool, "sonos", args[0], detail, err)
	}
	return lines, nil
}

// tailOutput condenses the last captured output lines into an error detail.
func tailOutput(lines []string) string {
	if len(lines) == 0 {
		return "command failed"
	}
	start := len(lines) - 3
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:], " / ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onOutput != nil {
			onOutput(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
