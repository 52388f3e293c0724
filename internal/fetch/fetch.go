// Package fetch downloads catalog pages and parses them into documents the
// adjuster can work on.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/enabling-languages/vernacular/internal/util"
)

type Logger interface {
	Debugf(string, ...any)
}

type Fetcher struct {
	client   *http.Client
	log      Logger
	attempts int
	backoff  time.Duration
}

func New(c *http.Client, log Logger) *Fetcher {
	return &Fetcher{
		client:   c,
		log:      log,
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
}

// Document fetches target and parses it. A <base href> pointing at the
// final URL is added when the page has none, so a saved copy still loads
// its stylesheets and images.
func (f *Fetcher) Document(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := util.DoWithRetry(f.client, req, f.attempts, f.backoff)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", target, resp.StatusCode)
	}

	// decode legacy charsets (Content-Type, <meta charset>, BOM) to UTF-8
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	final := resp.Request.URL
	if final == nil {
		final, _ = url.Parse(target)
	}
	doc.Url = final

	if final != nil && ensureBase(doc, final.String()) {
		f.log.Debugf("fetch: added <base href=%q>\n", final.String())
	}

	return doc, nil
}

func ensureBase(doc *goquery.Document, href string) bool {
	if doc.Find("base[href]").Length() > 0 {
		return false
	}

	head := doc.Find("head").First()
	if head.Length() == 0 {
		return false
	}

	base := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Base,
		Data:     "base",
		Attr:     []html.Attribute{{Key: "href", Val: href}},
	}
	head.PrependNodes(base)

	return true
}
