package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/wallctl/wallctl/internal/actions"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/local"
	"github.com/wallctl/wallctl/internal/outfmt"
	"github.com/wallctl/wallctl/internal/wallpaper"
)

// Process-level collaborators, swappable in tests.
var (
	stdin           io.Reader          = os.Stdin
	commandRunner   wallpaper.Runner   = wallpaper.ExecRunner{}
	commandLauncher wallpaper.Launcher = wallpaper.ExecLauncher{}
)

// applySettings are the per-invocation applier switches after flag and
// config resolution.
type applySettings struct {
	dir          string
	multiMonitor bool
	palette      bool
	notify       bool
}

func newApplier(cfg *config.Config, s applySettings) (*wallpaper.Applier, error) {
	sentinel, err := wallpaper.DefaultSentinel()
	if err != nil {
		return nil, err
	}

	dir, err := local.ExpandHome(s.dir)
	if err != nil {
		return nil, err
	}

	return wallpaper.New(wallpaper.Options{
		Dir:               dir,
		MultiMonitor:      s.multiMonitor,
		Palette:           s.palette,
		Notify:            s.notify,
		CompositorTimeout: cfg.CompositorTimeoutDuration(),
		Sentinel:          sentinel,
		Runner:            commandRunner,
		Launcher:          commandLauncher,
	}), nil
}

// resolveBool applies the flag > config > default cascade.
func resolveBool(flag, cfgVal *bool, def bool) bool {
	if flag != nil {
		return *flag
	}

	return config.BoolOr(cfgVal, def)
}

// shouldPreview determines if inline preview should be shown.
// Cascade: explicit flag > config preview > true (default ON for TTY).
// Always false when stdout is not a TTY.
func shouldPreview(flag *bool, cfg *config.Config) bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}

	var cfgVal *bool
	if cfg != nil {
		cfgVal = cfg.Preview
	}

	return resolveBool(flag, cfgVal, true)
}

// appliedResult is the JSON shape reported after a wallpaper is applied.
type appliedResult struct {
	Path     string `json:"path"`
	Desktop  string `json:"desktop"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category,omitempty"`
}

func reportApplied(ctx context.Context, res appliedResult) error {
	return outfmt.Emit(ctx, os.Stdout, res, func() error {
		uiFrom(ctx).Out().Successf("Wallpaper set: %s", res.Path)

		return nil
	})
}

// postActions runs the optional clipboard and browser actions. Failures are
// warnings: the wallpaper is already applied.
func postActions(ctx context.Context, copyPath bool, openURL, path string) {
	warn := uiFrom(ctx).Err()

	if copyPath {
		if err := actions.CopyToClipboard(path); err != nil {
			warn.Warnf("clipboard: %v", err)
		}
	}

	if openURL != "" {
		if err := actions.OpenInBrowser(openURL); err != nil {
			warn.Warnf("browser: %v", err)
		}
	}
}

// categoryDir is the per-category download directory under the root.
func categoryDir(cfg *config.Config, dir string) string {
	return filepath.Join(cfg.WallpaperRoot(), dir)
}
