// Package preview renders inline terminal image previews.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	// Register image format decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	termimg "github.com/blacktop/go-termimg"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"
)

const (
	minPreviewWidth = 16
	maxPreviewWidth = 80
	fallbackWidth   = 40
)

// DecodeError means the bytes are not an image format we can decode.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options configures image preview rendering.
type Options struct {
	// Width in character cells. 0 = auto-detect from terminal.
	Width int
	// Writer receives rendered escape sequences. Typically os.Stdout.
	Writer io.Writer
}

// Renderer draws candidate images in the terminal.
type Renderer struct {
	width int
	w     io.Writer
}

// New returns a Renderer writing to opts.Writer (os.Stdout when nil).
func New(opts Options) *Renderer {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	return &Renderer{width: opts.Width, w: w}
}

// Decode parses raw bytes into an image.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	return img, format, nil
}

// Render decodes data and draws it. The terminal's graphics protocol is tried
// first, then half-block text. Failures are returned: the user needs to see
// the candidate before accepting it.
func (r *Renderer) Render(data []byte) error {
	img, _, err := Decode(data)
	if err != nil {
		return err
	}

	width := r.effectiveWidth()

	rendered, err := termimg.New(img).Width(width).Scale(termimg.ScaleFit).Render()
	if err != nil {
		slog.Debug("graphics preview failed, falling back to text", "error", err)

		rendered, err = termimg.New(img).
			Width(width).
			Scale(termimg.ScaleFit).
			Protocol(termimg.Halfblocks).
			Render()
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
	}

	if _, err := fmt.Fprintln(r.w, rendered); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}

	return nil
}

// effectiveWidth returns the configured width, or a share of the terminal
// width clamped to a readable range.
func (r *Renderer) effectiveWidth() int {
	if r.width > 0 {
		return r.width
	}

	width := fallbackWidth
	if f, ok := r.w.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w / 2
		}
	}

	return max(minPreviewWidth, min(maxPreviewWidth, width))
}
