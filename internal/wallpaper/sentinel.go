package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SentinelName is the file in the home directory that records the last
// applied wallpaper.
const SentinelName = ".current_wall.txt"

// Sentinel is the single-line record of the last applied wallpaper. Each
// write replaces the previous content. Writers are assumed to be a single
// wallctl process at a time; concurrent runs are not coordinated.
type Sentinel struct {
	Path string
}

// DefaultSentinel returns the sentinel in the user's home directory.
func DefaultSentinel() (Sentinel, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Sentinel{}, fmt.Errorf("finding home directory: %w", err)
	}

	return Sentinel{Path: filepath.Join(home, SentinelName)}, nil
}

// Write records wallpaperPath, overwriting any previous value.
func (s Sentinel) Write(wallpaperPath string) error {
	if err := atomicWrite(s.Path, []byte(wallpaperPath+"\n")); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}

	return nil
}

// Read returns the recorded path, or "" when nothing has been applied yet.
func (s Sentinel) Read() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("reading %s: %w", s.Path, err)
	}

	line, _, _ := strings.Cut(string(data), "\n")

	return strings.TrimSpace(line), nil
}
