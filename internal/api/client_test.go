package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallctl/wallctl/internal/category"
)

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(ClientOptions{
		BaseURL:         baseURL,
		SingleSourceURL: baseURL + "/image",
		APIKey:          apiKey,
		UserAgent:       "wallctl/test",
	})
}

// --- Client construction ---

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientOptions{})

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultSingleSourceURL, c.SingleSourceURL())
	assert.Equal(t, DefaultResolution, c.resolution)
	assert.Equal(t, "wallctl/dev", c.userAgent)
}

func TestClient_UserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	resp, err := c.get(context.Background(), srv.URL+"/test")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "wallctl/test", gotUA)
}

func TestClient_NoRetry(t *testing.T) {
	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callCount.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	resp, err := c.get(context.Background(), srv.URL+"/busy")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), callCount.Load())
}

// --- Timeouts ---

func TestClient_TimeoutBoundsSearchOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("slow body"))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Search(context.Background(), SearchQuery{Page: 1})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)

	img, err := c.FetchImage(context.Background(), srv.URL+"/big.jpg")
	require.NoError(t, err, "image downloads are not bound by the search timeout")
	assert.Equal(t, []byte("slow body"), img.Data)
}

// --- Logging transport ---

func TestLoggingTransport_RedactsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(orig)

	c := NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "secret-key", Verbose: true})
	resp, err := c.get(context.Background(), srv.URL+"/api/v1/search?apikey=secret-key&q=x")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, logs.String(), "http request")
	assert.Contains(t, logs.String(), "http response")
	assert.Contains(t, logs.String(), "REDACTED")
	assert.NotContains(t, logs.String(), "secret-key")
}

// --- Status mapping ---

func TestCheckStatus_Success(t *testing.T) {
	assert.NoError(t, checkStatus(&http.Response{StatusCode: http.StatusOK}))
	assert.NoError(t, checkStatus(&http.Response{StatusCode: http.StatusNoContent}))
}

func TestCheckStatus_StatusCodes(t *testing.T) {
	tests := []struct {
		code    int
		wantMsg string
	}{
		{401, "invalid or missing API key"},
		{404, "image not found"},
		{429, "rate limited, try again later"},
		{500, "unexpected error (HTTP 500)"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := checkStatus(&http.Response{StatusCode: tt.code})
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

// --- Context helpers ---

func TestWithClient_ClientFromContext(t *testing.T) {
	c := newTestClient("http://localhost", "")
	ctx := WithClient(context.Background(), c)

	assert.Same(t, c, ClientFromContext(ctx))
}

func TestClientFromContext_Missing(t *testing.T) {
	assert.Nil(t, ClientFromContext(context.Background()))
}

// --- Query rendering ---

func TestSearchURL_Params(t *testing.T) {
	c := newTestClient("https://example.test", "k3y")

	raw := c.searchURL(SearchQuery{
		Categories: category.Anime,
		Purity:     category.Sketchy | category.NSFW,
		Text:       "cyber punk",
		Page:       3,
	})

	req, err := http.NewRequest(http.MethodGet, raw, nil)
	require.NoError(t, err)

	q := req.URL.Query()
	assert.Equal(t, "/api/v1/search", req.URL.Path)
	assert.Equal(t, "random", q.Get("sorting"))
	assert.Equal(t, "1920x1080", q.Get("resolutions"))
	assert.Equal(t, "010", q.Get("categories"))
	assert.Equal(t, "011", q.Get("purity"))
	assert.Equal(t, "cyber punk", q.Get("q"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "k3y", q.Get("apikey"))
}

func TestSearchURL_NoAPIKey(t *testing.T) {
	c := newTestClient("https://example.test", "")

	req, err := http.NewRequest(http.MethodGet, c.searchURL(SearchQuery{Page: 1}), nil)
	require.NoError(t, err)

	assert.False(t, req.URL.Query().Has("apikey"))
}
