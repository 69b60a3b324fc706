// Package wallpaper writes fetched images to disk and activates them as the
// desktop background.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wallctl/wallctl/internal/api"
)

const (
	// DefaultCompositorTimeout bounds the wait for the Hyprland wallpaper
	// daemon.
	DefaultCompositorTimeout = 10 * time.Second
	defaultPollInterval      = 100 * time.Millisecond
)

// Options configures an Applier. Zero values select the real system.
type Options struct {
	// Dir receives downloaded images.
	Dir string
	// MultiMonitor sets every monitor instead of only the first.
	MultiMonitor bool
	// Palette runs the colour-palette generator on the new wallpaper.
	Palette bool
	// Notify sends a desktop notification after applying.
	Notify bool

	CompositorTimeout time.Duration
	PollInterval      time.Duration

	Sentinel Sentinel
	Runner   Runner
	Launcher Launcher
	Getenv   func(string) string
	// ProcRoot is where process environments are read from.
	ProcRoot string
}

// Applier persists images and activates them.
type Applier struct {
	dir               string
	multiMonitor      bool
	palette           bool
	notify            bool
	compositorTimeout time.Duration
	pollInterval      time.Duration
	sentinel          Sentinel
	runner            Runner
	launcher          Launcher
	getenv            func(string) string
	procRoot          string
}

// New builds an Applier from opts.
func New(opts Options) *Applier {
	a := &Applier{
		dir:               opts.Dir,
		multiMonitor:      opts.MultiMonitor,
		palette:           opts.Palette,
		notify:            opts.Notify,
		compositorTimeout: opts.CompositorTimeout,
		pollInterval:      opts.PollInterval,
		sentinel:          opts.Sentinel,
		runner:            opts.Runner,
		launcher:          opts.Launcher,
		getenv:            opts.Getenv,
		procRoot:          opts.ProcRoot,
	}

	if a.compositorTimeout <= 0 {
		a.compositorTimeout = DefaultCompositorTimeout
	}

	if a.pollInterval <= 0 {
		a.pollInterval = defaultPollInterval
	}

	if a.runner == nil {
		a.runner = ExecRunner{}
	}

	if a.launcher == nil {
		a.launcher = ExecLauncher{}
	}

	if a.getenv == nil {
		a.getenv = os.Getenv
	}

	if a.procRoot == "" {
		a.procRoot = "/proc"
	}

	return a
}

// Request is an accepted image to apply.
type Request struct {
	URL          string
	Image        *api.FetchedImage
	SingleSource bool
}

// Applied describes a wallpaper that is now active.
type Applied struct {
	Path    string  `json:"path"`
	Desktop Desktop `json:"-"`
}

// Apply saves req's image under the configured directory and activates it.
// The desktop is detected before anything is written.
func (a *Applier) Apply(ctx context.Context, req Request) (*Applied, error) {
	if req.Image == nil {
		return nil, errors.New("no image to apply")
	}

	desktop, err := DetectDesktop(a.getenv)
	if err != nil {
		return nil, err
	}

	name, err := FileName(req.URL, req.Image.SourceID, req.SingleSource)
	if err != nil {
		return nil, err
	}

	data, name, err := Normalize(req.Image.Data, name)
	if err != nil {
		return nil, err
	}

	path, err := filepath.Abs(filepath.Join(a.dir, name))
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if err := atomicWrite(path, data); err != nil {
		return nil, fmt.Errorf("saving wallpaper: %w", err)
	}

	slog.Debug("saved wallpaper", "path", path, "bytes", len(data))

	return a.activate(ctx, desktop, path)
}

// ApplyFile activates an image that is already on disk.
func (a *Applier) ApplyFile(ctx context.Context, path string) (*Applied, error) {
	desktop, err := DetectDesktop(a.getenv)
	if err != nil {
		return nil, err
	}

	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading wallpaper: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return a.activate(ctx, desktop, path)
}

func (a *Applier) activate(ctx context.Context, desktop Desktop, path string) (*Applied, error) {
	var err error

	switch desktop {
	case Gnome:
		err = a.setGnome(ctx, path)
	case Hyprland:
		err = a.setHyprland(ctx, path)
	case DWM:
		err = a.setDWM(ctx, path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedEnvironment, desktop)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", desktop, err)
	}

	if err := a.sentinel.Write(path); err != nil {
		return nil, err
	}

	if a.palette {
		a.launcher.Launch(Command{Name: "wal", Args: []string{"-q", "-i", path}})
	}

	if a.notify {
		a.launcher.Launch(Command{
			Name: "notify-send",
			Args: []string{"-i", path, "Wallpaper set", "New wallpaper set to " + filepath.Base(path)},
		})
	}

	slog.Debug("wallpaper applied", "desktop", desktop.String(), "path", path)

	return &Applied{Path: path, Desktop: desktop}, nil
}
