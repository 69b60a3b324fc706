package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImage_Success(t *testing.T) {
	body := []byte("fake-image-data")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	img, err := c.FetchImage(context.Background(), srv.URL+"/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, body, img.Data)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Empty(t, img.SourceID)
}

func TestFetchImage_ImageIDHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("image_id", "8f1c2d")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	img, err := c.FetchImage(context.Background(), srv.URL+"/image")
	require.NoError(t, err)

	assert.Equal(t, "8f1c2d", img.SourceID)
}

func TestFetchImage_ImageSourceFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("image_source", "https://example.com/artist/42")
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	img, err := c.FetchImage(context.Background(), srv.URL+"/image")
	require.NoError(t, err)

	assert.Equal(t, "https:%2F%2Fexample.com%2Fartist%2F42", img.SourceID)
}

func TestFetchImage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.FetchImage(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestFetchImage_InvalidURL(t *testing.T) {
	c := newTestClient("http://localhost", "")
	_, err := c.FetchImage(context.Background(), "://bad-url")
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}
