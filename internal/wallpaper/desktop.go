package wallpaper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedEnvironment is returned when no strategy exists for the
// current desktop session.
var ErrUnsupportedEnvironment = errors.New("unsupported desktop environment")

// ErrCompositorNotReady is returned when the Hyprland wallpaper daemon does
// not come up within the configured timeout.
var ErrCompositorNotReady = errors.New("hyprpaper did not become ready")

// Desktop identifies a supported desktop session.
type Desktop int

const (
	Gnome Desktop = iota + 1
	Hyprland
	DWM
)

func (d Desktop) String() string {
	switch d {
	case Gnome:
		return "gnome"
	case Hyprland:
		return "hyprland"
	case DWM:
		return "dwm"
	default:
		return "unknown"
	}
}

// DetectDesktop reads XDG_SESSION_DESKTOP through getenv.
func DetectDesktop(getenv func(string) string) (Desktop, error) {
	session := strings.ToLower(strings.TrimSpace(getenv("XDG_SESSION_DESKTOP")))

	switch session {
	case "gnome":
		return Gnome, nil
	case "hyprland":
		return Hyprland, nil
	case "dwm":
		return DWM, nil
	case "":
		return 0, fmt.Errorf("%w: XDG_SESSION_DESKTOP is not set", ErrUnsupportedEnvironment)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedEnvironment, session)
	}
}

const gnomeSchema = "org.gnome.desktop.background"

// setGnome points both the light and dark background keys at path. gsettings
// needs the session bus of the running gnome-shell, which is recovered from
// its process environment.
func (a *Applier) setGnome(ctx context.Context, path string) error {
	var env []string
	if addr, err := a.gnomeBusAddress(ctx); err != nil {
		slog.Warn("could not find gnome session bus, using inherited environment", "error", err)
	} else {
		env = []string{"DBUS_SESSION_BUS_ADDRESS=" + addr}
	}

	uri := "file://" + path

	for _, kv := range [][2]string{
		{"picture-uri", uri},
		{"picture-uri-dark", uri},
		{"picture-options", "zoom"},
	} {
		cmd := Command{Name: "gsettings", Args: []string{"set", gnomeSchema, kv[0], kv[1]}, Env: env}
		if _, err := a.runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("setting %s: %w", kv[0], err)
		}
	}

	return nil
}

func (a *Applier) gnomeBusAddress(ctx context.Context) (string, error) {
	out, err := a.runner.Run(ctx, Command{
		Name: "pgrep",
		Args: []string{"-xu", a.getenv("USER"), "gnome-shell"},
	})
	if err != nil {
		return "", fmt.Errorf("finding gnome-shell: %w", err)
	}

	pid, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if pid == "" {
		return "", errors.New("gnome-shell is not running")
	}

	environ, err := os.ReadFile(filepath.Join(a.procRoot, pid, "environ"))
	if err != nil {
		return "", fmt.Errorf("reading gnome-shell environment: %w", err)
	}

	for _, kv := range bytes.Split(environ, []byte{0}) {
		if v, ok := strings.CutPrefix(string(kv), "DBUS_SESSION_BUS_ADDRESS="); ok {
			return v, nil
		}
	}

	return "", errors.New("DBUS_SESSION_BUS_ADDRESS not in gnome-shell environment")
}

// setHyprland waits for hyprpaper, unloads old images and assigns path to
// each monitor, or only the first one when multi-monitor is off.
func (a *Applier) setHyprland(ctx context.Context, path string) error {
	if err := a.waitHyprpaper(ctx); err != nil {
		return err
	}

	if _, err := a.runner.Run(ctx, Command{Name: "hyprctl", Args: []string{"hyprpaper", "unload", "all"}}); err != nil {
		return fmt.Errorf("unloading wallpapers: %w", err)
	}

	monitors, err := a.hyprMonitors(ctx)
	if err != nil {
		return err
	}

	for _, mon := range monitors {
		if _, err := a.runner.Run(ctx, Command{Name: "hyprctl", Args: []string{"hyprpaper", "preload", path}}); err != nil {
			return fmt.Errorf("preloading wallpaper: %w", err)
		}

		if _, err := a.runner.Run(ctx, Command{
			Name: "hyprctl",
			Args: []string{"hyprpaper", "wallpaper", mon + "," + path},
		}); err != nil {
			return fmt.Errorf("setting wallpaper on %s: %w", mon, err)
		}

		if !a.multiMonitor {
			break
		}
	}

	return nil
}

// waitHyprpaper polls until the hyprpaper process exists and its socket
// answers, bounded by the compositor timeout.
func (a *Applier) waitHyprpaper(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.compositorTimeout)
	defer cancel()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		if a.hyprpaperReady(ctx) {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %s", ErrCompositorNotReady, a.compositorTimeout)
		case <-ticker.C:
		}
	}
}

func (a *Applier) hyprpaperReady(ctx context.Context) bool {
	if _, err := a.runner.Run(ctx, Command{Name: "pgrep", Args: []string{"hyprpaper"}}); err != nil {
		return false
	}

	out, err := a.runner.Run(ctx, Command{Name: "hyprctl", Args: []string{"hyprpaper"}})
	if err != nil {
		return false
	}

	// hyprctl reports a socket connection error until hyprpaper is listening.
	return !strings.Contains(string(out), "sock")
}

func (a *Applier) hyprMonitors(ctx context.Context) ([]string, error) {
	out, err := a.runner.Run(ctx, Command{Name: "hyprctl", Args: []string{"monitors", "-j"}})
	if err != nil {
		return nil, fmt.Errorf("listing monitors: %w", err)
	}

	var monitors []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out, &monitors); err != nil {
		return nil, fmt.Errorf("decoding monitors: %w", err)
	}

	names := make([]string, 0, len(monitors))
	for _, m := range monitors {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}

	if len(names) == 0 {
		return nil, errors.New("hyprctl reported no monitors")
	}

	return names, nil
}

func (a *Applier) setDWM(ctx context.Context, path string) error {
	if _, err := a.runner.Run(ctx, Command{Name: "xwallpaper", Args: []string{"--clear"}}); err != nil {
		return fmt.Errorf("clearing wallpaper: %w", err)
	}

	if _, err := a.runner.Run(ctx, Command{Name: "xwallpaper", Args: []string{"--zoom", path}}); err != nil {
		return fmt.Errorf("setting wallpaper: %w", err)
	}

	return nil
}
