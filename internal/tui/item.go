// Package tui provides the interactive Bubbletea picker for local wallpapers.
package tui

import (
	"fmt"
	"path/filepath"
	"time"
)

// FileItem wraps a wallpaper file to implement the bubbles list.DefaultItem
// interface.
type FileItem struct {
	path    string
	size    int64
	modTime time.Time
}

// NewFileItem creates a FileItem.
func NewFileItem(path string, size int64, modTime time.Time) FileItem {
	return FileItem{path: path, size: size, modTime: modTime}
}

// Title returns the file name.
func (i FileItem) Title() string { return filepath.Base(i.path) }

// Description returns size and modification date.
func (i FileItem) Description() string {
	return fmt.Sprintf("%s | %s", humanSize(i.size), i.modTime.Format("2006-01-02"))
}

// FilterValue returns the file name for fuzzy matching.
func (i FileItem) FilterValue() string { return filepath.Base(i.path) }

// Path returns the absolute file path.
func (i FileItem) Path() string { return i.path }

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
