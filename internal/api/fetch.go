package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/wallctl/wallctl/internal/encoding"
)

// Headers the secondary source uses to identify the served image. Older
// deployments sent an attribution string instead of an id.
const (
	headerImageID     = "image_id"
	headerImageSource = "image_source"
)

// FetchImage downloads rawURL into memory. The whole body is buffered; there
// is no size cap and no retry.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (*FetchedImage, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, &NetworkError{Op: "fetch image", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, &NetworkError{Op: "fetch image", URL: rawURL, Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "fetch image", URL: rawURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	img := &FetchedImage{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if id := resp.Header.Get(headerImageID); id != "" {
		img.SourceID = encoding.EncodeFileName(id)
	} else if src := resp.Header.Get(headerImageSource); src != "" {
		img.SourceID = encoding.EncodeFileName(src)
	}

	slog.Debug("image fetched", "url", rawURL, "bytes", len(data), "source_id", img.SourceID)

	return img, nil
}
