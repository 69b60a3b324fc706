package wallpaper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Command is one external program invocation. Env entries are appended to
// the current process environment.
type Command struct {
	Name string
	Args []string
	Env  []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes a command synchronously and checks its exit status.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// Launcher starts a command without waiting for it. Launches are best
// effort: failures are logged, never returned.
type Launcher interface {
	Launch(cmd Command)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd and returns its stdout. A non-zero exit is an error that
// carries the command's stderr.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // fixed tool names
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stderr bytes.Buffer
	c.Stderr = &stderr

	slog.Debug("running command", "cmd", cmd.String())

	out, err := c.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return out, fmt.Errorf("%s: %w: %s", cmd.Name, err, strings.TrimSpace(stderr.String()))
		}

		return out, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	return out, nil
}

// ExecLauncher starts detached commands with os/exec.
type ExecLauncher struct{}

// Launch starts cmd and reaps it in the background.
func (ExecLauncher) Launch(cmd Command) {
	c := exec.Command(cmd.Name, cmd.Args...) //nolint:gosec // fixed tool names
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	if err := c.Start(); err != nil {
		slog.Debug("launch failed", "cmd", cmd.String(), "error", err)

		return
	}

	go func() { _ = c.Wait() }()
}
