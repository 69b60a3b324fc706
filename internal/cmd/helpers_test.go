package cmd

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wallctl/wallctl/internal/api"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/outfmt"
	"github.com/wallctl/wallctl/internal/wallpaper"
)

func testCtx(t *testing.T, baseURL string, jsonMode bool) context.Context {
	t.Helper()

	client := api.NewClient(api.ClientOptions{
		BaseURL:         baseURL,
		SingleSourceURL: baseURL + "/image",
		UserAgent:       "wallctl/test",
	})

	ctx := context.Background()
	ctx = outfmt.WithMode(ctx, outfmt.Mode{JSON: jsonMode})
	ctx = api.WithClient(ctx, client)

	return ctx
}

// testCtxWithCfg returns a context with API client and the given config.
func testCtxWithCfg(t *testing.T, baseURL string, jsonMode bool, cfg *config.Config) context.Context {
	t.Helper()

	ctx := testCtx(t, baseURL, jsonMode)
	ctx = config.WithConfig(ctx, cfg)

	return ctx
}

// captureStdout runs fn while capturing os.Stdout and returns the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- buf
	}()

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	buf := <-done
	_ = r.Close()

	return string(buf)
}

type recordingRunner struct {
	mu   sync.Mutex
	cmds []string
}

func (r *recordingRunner) Run(_ context.Context, cmd wallpaper.Command) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cmds = append(r.cmds, cmd.String())

	return nil, nil
}

type recordingLauncher struct {
	cmds []string
}

func (l *recordingLauncher) Launch(cmd wallpaper.Command) {
	l.cmds = append(l.cmds, cmd.String())
}

// fakeDesktop points HOME at a temp dir, selects the dwm strategy and swaps
// in recording runners and the given stdin.
func fakeDesktop(t *testing.T, input string) (string, *recordingRunner, *recordingLauncher) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_SESSION_DESKTOP", "dwm")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	runner := &recordingRunner{}
	launcher := &recordingLauncher{}

	origRunner, origLauncher, origStdin := commandRunner, commandLauncher, stdin
	commandRunner, commandLauncher, stdin = runner, launcher, strings.NewReader(input)

	t.Cleanup(func() {
		commandRunner, commandLauncher, stdin = origRunner, origLauncher, origStdin
	})

	return home, runner, launcher
}
