package cec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/simoneroux/magicbox/internal/services"
)

// Controller defines the display behaviour required by the dispatcher.
type Controller interface {
	PowerStatus(ctx context.Context) (bool, error)
	PowerOn(ctx context.Context) error
	SwitchInput(ctx context.Context) error
	Standby(ctx context.Context) error
}

// Executor abstracts command execution for testability. The CEC command is
// delivered on stdin because cec-client's single-command mode reads it there.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin string, onOutput func(string)) error
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

// Client wraps cec-client one-shot invocations against the television on
// logical address 0. The HDMI bus carries the commands; no network address
// is involved.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a display client.
func New(binary string, commandTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("display binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(commandTimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// PowerStatus queries whether the television reports itself powered on.
func (c *Client) PowerStatus(ctx context.Context) (bool, error) {
	lines, err := c.run(ctx, "pow 0")
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "power status: on") {
			return true, nil
		}
	}
	return false, nil
}

// PowerOn asks the television to leave standby.
func (c *Client) PowerOn(ctx context.Context) error {
	_, err := c.run(ctx, "on 0")
	return err
}

// SwitchInput makes this device the television's active source.
func (c *Client) SwitchInput(ctx context.Context) error {
	_, err := c.run(ctx, "as")
	return err
}

// Standby puts the television into standby.
func (c *Client) Standby(ctx context.Context) error {
	_, err := c.run(ctx, "standby 0")
	return err
}

func (c *Client) run(ctx context.Context, command string) ([]string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lines []string
	err := c.exec.Run(runCtx, c.binary, []string{"-s", "-d", "1"}, command+"\n", func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	})
	if err != nil {
		operation := strings.Fields(command)[0]
		return lines, services.Wrap(services.ErrExternalTool, "cec", operation, "cec-client failed", err)
	}
	return lines, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(stdin)
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
