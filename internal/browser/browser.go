// Package browser runs the adjuster inside a headless Chrome against the
// live page, the environment the userscript is written for.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/enabling-languages/vernacular/internal/rules"
	"github.com/enabling-languages/vernacular/internal/userscript"
)

type Logger interface {
	Debugf(string, ...any)
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Cookie    string
	Headless  bool
	ExecPath  string
}

// Summary is what the injected script reports back.
type Summary struct {
	Containers int            `json:"containers"`
	Missing    []string       `json:"missing"`
	Marked     int            `json:"marked"`
	Overridden map[string]int `json:"overridden"`
}

type Outcome struct {
	URL     string
	Summary Summary
	HTML    string
}

type Runner struct {
	allocator context.Context
	cancel    context.CancelFunc
	opts      Options
	log       Logger
}

func NewRunner(opts Options, log Logger) *Runner {
	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-extensions", true),
	)
	if opts.UserAgent != "" {
		flags = append(flags, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		flags = append(flags, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), flags...)

	return &Runner{
		allocator: allocCtx,
		cancel:    cancel,
		opts:      opts,
		log:       log,
	}
}

func (r *Runner) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Run loads target, waits until the document is ready, evaluates the
// generated script once and returns its summary with the resulting markup.
func (r *Runner) Run(ctx context.Context, target string, p rules.Profile) (*Outcome, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("live: empty target url")
	}

	script, err := userscript.Script(p)
	if err != nil {
		return nil, err
	}

	taskCtx, cancelTab := chromedp.NewContext(r.allocator)
	defer cancelTab()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.opts.Timeout)
	defer cancelTimeout()

	// tie the tab to the caller's context
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	out := &Outcome{}
	actions := []chromedp.Action{network.Enable()}
	if r.opts.Cookie != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{"Cookie": r.opts.Cookie}))
	}
	actions = append(actions,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(script, &out.Summary),
		chromedp.Location(&out.URL),
		chromedp.OuterHTML("html", &out.HTML, chromedp.ByQuery),
	)

	r.log.Debugf("live: navigating to %s\n", target)
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return nil, fmt.Errorf("live %s: %w", target, err)
	}
	r.log.Debugf("live: %s marked=%d overridden=%v\n", out.URL, out.Summary.Marked, out.Summary.Overridden)

	return out, nil
}
