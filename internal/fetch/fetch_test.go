package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enabling-languages/vernacular/internal/util"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any) {}

const page = `<!DOCTYPE html><html><head><title>t</title></head><body>
<div id="bibdata"><span class="vernacular" lang="ar">نص</span></div></body></html>`

func newFetcher(t *testing.T) *Fetcher {
	t.Helper()
	c, err := util.NewHTTPClient(util.HTTPClientOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	f := New(c, nopLog{})
	f.backoff = time.Millisecond
	return f
}

func TestDocumentAddsBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	doc, err := newFetcher(t).Document(context.Background(), srv.URL+"/title/1")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/title/1", doc.Find("head > base").AttrOr("href", ""))
	assert.Equal(t, 1, doc.Find(".vernacular").Length())
	assert.Equal(t, "/title/1", doc.Url.Path)
}

func TestDocumentKeepsExistingBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><base href="https://cdn.example/"></head><body></body></html>`))
	}))
	defer srv.Close()

	doc, err := newFetcher(t).Document(context.Background(), srv.URL)
	require.NoError(t, err)

	bases := doc.Find("base")
	require.Equal(t, 1, bases.Length())
	assert.Equal(t, "https://cdn.example/", bases.AttrOr("href", ""))
}

func TestDocumentRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newFetcher(t).Document(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestDocumentDecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1256")
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		// "نص" in windows-1256
		_, _ = w.Write([]byte("<html><body><span class=\"vernacular\" lang=\"ar\">\xe4\xd5</span></body></html>"))
	}))
	defer srv.Close()

	doc, err := newFetcher(t).Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "نص", doc.Find(".vernacular").Text())
}
