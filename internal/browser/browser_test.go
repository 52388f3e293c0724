package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enabling-languages/vernacular/internal/rules"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any) {}

func chromePath(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("VERNACULAR_CHROME"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome/Chromium found; set VERNACULAR_CHROME to run live tests")
	return ""
}

const livePage = `<!DOCTYPE html><html lang="en"><head><title>record</title></head><body>
<div id="details">
  <span class="vernacular" lang="ar" id="ar">نص</span>
  <span class="vernacular" lang="ar-EG" id="areg">نص</span>
  <div lang="fa"><span class="vernacular" id="fa">کتاب</span></div>
  <span class="vernacular" lang="fr" id="fr">texte</span>
</div>
</body></html>`

func TestRunAppliesInLiveDOM(t *testing.T) {
	exe := chromePath(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(livePage))
	}))
	defer srv.Close()

	p, err := rules.ProfileByName("worldcat")
	require.NoError(t, err)

	r := NewRunner(Options{Timeout: 30 * time.Second, Headless: true, ExecPath: exe}, nopLog{})
	defer r.Close()

	out, err := r.Run(context.Background(), srv.URL, p)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Summary.Containers)
	assert.Equal(t, []string{"bibdata"}, out.Summary.Missing)
	assert.Equal(t, 4, out.Summary.Marked)
	assert.Equal(t, map[string]int{"ar": 1, "fa": 1}, out.Summary.Overridden)

	// the DOM serialises attributes in the order they were set
	assert.Contains(t, out.HTML, `id="ar" dir="rtl"`)
	assert.Contains(t, out.HTML, `id="fa" dir="rtl"`)
	assert.Contains(t, out.HTML, `id="fr" dir="auto"`)
	assert.Contains(t, out.HTML, `id="areg" dir="auto"`)
}

func TestRunRejectsEmptyURL(t *testing.T) {
	p, err := rules.ProfileByName("worldcat")
	require.NoError(t, err)

	r := NewRunner(Options{Headless: true}, nopLog{})
	defer r.Close()

	_, err = r.Run(context.Background(), " ", p)
	assert.Error(t, err)
}
