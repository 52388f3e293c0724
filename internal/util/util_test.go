package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithRetryRecoversFrom5xx(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(HTTPClientOptions{Timeout: 5 * time.Second, UserAgent: "vernacular-test"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(client, req, 3, time.Millisecond)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDoWithRetryGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(srv.Client(), req, 2, time.Millisecond)
	assert.EqualError(t, err, "HTTP 503 after 2 attempts")
}

func TestDoWithRetryHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	cancel()

	_, err = DoWithRetry(srv.Client(), req, 5, time.Hour)
	assert.Error(t, err)
}

func TestHeadersAndCookies(t *testing.T) {
	var ua, cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		cookie = r.Header.Get("Cookie")
	}))
	defer srv.Close()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("\n  session=abc  \nignored=1\n"), 0644))

	client, err := NewHTTPClient(HTTPClientOptions{
		Timeout:    time.Second,
		UserAgent:  PickUserAgent("custom/1.0"),
		Cookie:     "lang=ar",
		CookieFile: cookieFile,
	})
	require.NoError(t, err)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "custom/1.0", ua)
	assert.Equal(t, "lang=ar; session=abc", cookie)
	assert.Equal(t, cookie, CookieHeader("lang=ar", cookieFile))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "page.html")
	require.NoError(t, WriteFileAtomic(path, []byte("<p>x</p>"), 0644))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(b))
	assert.NoFileExists(t, path+TempSuffix)
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
}
