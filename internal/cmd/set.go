package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/local"
	"github.com/wallctl/wallctl/internal/tui"
)

// runPicker shows the interactive file picker and returns the chosen path,
// or "" when the user cancels. Swappable in tests.
var runPicker = func(items []list.Item) (string, error) {
	p := tea.NewProgram(tui.NewPicker(items), tea.WithOutput(os.Stderr), tea.WithInputTTY())

	result, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("interactive picker: %w", err)
	}

	picker, ok := result.(tui.Model)
	if !ok {
		return "", errors.New("unexpected picker result type")
	}

	if picker.Cancelled() || picker.Selected() == nil {
		return "", nil
	}

	return picker.Selected().Path(), nil
}

// defaultLocalDir is the category directory set picks from by default.
const defaultLocalDir = "anime"

// SetCmd applies a wallpaper that is already on disk.
type SetCmd struct {
	Random             bool   `help:"Pick a random wallpaper from the directory" short:"r"`
	WallpaperFile      string `help:"Apply this file" name:"wallpaper-file"`
	WallpaperDir       string `help:"Directory to pick from (default: <wallpaper_dir>/anime)" name:"wallpaper-dir"`
	Pick               bool   `help:"Choose a wallpaper interactively"`
	Pywal              *bool  `help:"Generate a color palette with pywal (default true)" name:"pywal" negatable:""`
	NoMultipleMonitors bool   `help:"Only set the first monitor" name:"no-multiple-monitors"`
	Notify             *bool  `help:"Send a desktop notification" name:"notify" negatable:""`
	Copy               bool   `help:"Copy the applied path to clipboard" name:"copy" short:"c"`
}

// Run resolves the wallpaper source and applies it.
func (c *SetCmd) Run(ctx context.Context, root *RootFlags) error {
	modes := 0
	for _, on := range []bool{c.Random, c.WallpaperFile != "", c.Pick} {
		if on {
			modes++
		}
	}

	if modes != 1 {
		return &ExitError{Code: 2, Err: errors.New("specify exactly one of --random, --wallpaper-file or --pick")}
	}

	if c.Pick && root != nil && root.NoInput {
		return &ExitError{Code: 2, Err: errors.New("--pick is interactive and cannot run with --no-input")}
	}

	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}

	path, err := c.resolve(cfg)
	if err != nil {
		return err
	}

	if path == "" {
		return nil
	}

	applier, err := newApplier(cfg, applySettings{
		multiMonitor: !c.NoMultipleMonitors && config.BoolOr(cfg.MultipleMonitors, true),
		palette:      resolveBool(c.Pywal, cfg.Pywal, true),
		notify:       resolveBool(c.Notify, cfg.Notify, true),
	})
	if err != nil {
		return err
	}

	applied, err := applier.ApplyFile(ctx, path)
	if err != nil {
		return fmt.Errorf("applying wallpaper: %w", err)
	}

	if err := reportApplied(ctx, appliedResult{
		Path:    applied.Path,
		Desktop: applied.Desktop.String(),
	}); err != nil {
		return err
	}

	postActions(ctx, c.Copy, "", applied.Path)

	return nil
}

// resolve returns the file to apply, or "" if the picker was cancelled.
func (c *SetCmd) resolve(cfg *config.Config) (string, error) {
	if c.WallpaperFile != "" {
		return local.Resolve(c.WallpaperFile)
	}

	dir := c.WallpaperDir
	if dir == "" {
		dir = categoryDir(cfg, defaultLocalDir)
	}

	if c.Random {
		return local.Random(dir)
	}

	files, err := local.List(dir)
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", local.ErrEmptyDir, dir)
	}

	return runPicker(tui.ItemsFromPaths(files))
}
