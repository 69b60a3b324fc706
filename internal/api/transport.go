package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport wraps an http.RoundTripper with slog debug logging.
type loggingTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper with request/response logging.
// The apikey query parameter is redacted.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := redactedURL(req)
	slog.Debug("http request", "method", req.Method, "url", target)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		slog.Debug("http error",
			"method", req.Method,
			"url", target,
			"error", err,
			"duration", time.Since(start),
		)

		return nil, fmt.Errorf("logging round trip: %w", err)
	}

	slog.Debug("http response",
		"method", req.Method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp, nil
}

func redactedURL(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		u.RawQuery = q.Encode()
	}

	return u.String()
}
