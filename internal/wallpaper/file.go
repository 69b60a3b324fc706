package wallpaper

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/webp"

	"github.com/wallctl/wallctl/internal/preview"
)

// FileName derives the on-disk name for a fetched image. Single-source
// images are named by the server-supplied id; everything else keeps the last
// path segment of its URL.
func FileName(rawURL, sourceID string, singleSource bool) (string, error) {
	if singleSource {
		if sourceID == "" {
			sourceID = uuid.NewString()
		}

		return sourceID + ".png", nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing image url: %w", err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no file name in image url %q", rawURL)
	}

	return name, nil
}

// IsWebP reports whether data starts with a RIFF/WEBP container header.
func IsWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

// Normalize re-encodes WebP images as PNG, which every supported desktop can
// display, and rewrites the extension to match. Other data is returned
// untouched.
func Normalize(data []byte, name string) ([]byte, string, error) {
	if !IsWebP(data) {
		return data, name, nil
	}

	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &preview.DecodeError{Err: err}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, "", fmt.Errorf("encoding png: %w", err)
	}

	return buf.Bytes(), strings.TrimSuffix(name, filepath.Ext(name)) + ".png", nil
}

// atomicWrite writes data to path via temp-file + rename. The data is synced
// before the rename so readers never observe a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	tmpPath = "" // prevent deferred cleanup

	return nil
}
