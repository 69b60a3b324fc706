// Package local picks wallpapers that are already on disk.
package local

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmptyDir is returned when a directory holds no candidate files.
var ErrEmptyDir = errors.New("no wallpapers found")

// List returns the absolute paths of the visible regular files in dir,
// sorted by name.
func List(dir string) ([]string, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	var files []string

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}

		files = append(files, filepath.Join(abs, e.Name()))
	}

	sort.Strings(files)

	return files, nil
}

// Random returns one file from dir chosen uniformly at random.
func Random(dir string) (string, error) {
	files, err := List(dir)
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrEmptyDir, dir)
	}

	return files[rand.IntN(len(files))], nil //nolint:gosec // not security sensitive
}

// Resolve canonicalises an explicit wallpaper path and checks it is a file.
func Resolve(path string) (string, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("wallpaper file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", abs)
	}

	return abs, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
