package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/enabling-languages/vernacular/internal/adjuster"
	"github.com/enabling-languages/vernacular/internal/config"
	"github.com/enabling-languages/vernacular/internal/fetch"
	"github.com/enabling-languages/vernacular/internal/rules"
	"github.com/enabling-languages/vernacular/internal/userscript"
	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

var (
	flagFetchOut      string
	flagAnyURL        bool
	flagCookie        string
	flagCookieFile    string
	flagUserAgent     string
	flagCFBypass      bool
	flagTimeout       time.Duration
	flagFetchNoAdjust bool
)

func init() {
	fetchCmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a catalog page and save it with language styling applied",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}

	fetchCmd.Flags().StringVarP(&flagFetchOut, "out", "o", "", "write the page to this file instead of stdout")
	fetchCmd.Flags().BoolVar(&flagAnyURL, "any-url", false, "do not check the URL against the profile's @match patterns")
	fetchCmd.Flags().BoolVar(&flagFetchNoAdjust, "raw", false, "save the page without styling (for comparison)")
	addHTTPFlags(fetchCmd)

	rootCmd.AddCommand(fetchCmd)
}

func addHTTPFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	c.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	c.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	c.Flags().BoolVar(&flagCFBypass, "cf-bypass", false, "use a browser-like TLS fingerprint for Cloudflare-fronted catalogs")
	c.Flags().DurationVar(&flagTimeout, "timeout", 0, "page load timeout, e.g. 45s")
}

func httpOptions() config.Options {
	return config.Options{
		Cookie:     flagCookie,
		CookieFile: flagCookieFile,
		UserAgent:  flagUserAgent,
		CFBypass:   flagCFBypass,
		Timeout:    flagTimeout,
	}
}

func checkMatch(p rules.Profile, target string) error {
	if flagAnyURL {
		return nil
	}

	ok, err := userscript.MatchAny(p.Match, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s does not match profile %q patterns %v (use --any-url to override)", target, p.Name, p.Match)
	}

	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg, profile, logSvc, err := setup(httpOptions())
	if err != nil {
		return err
	}

	if err := checkMatch(profile, target); err != nil {
		return err
	}

	adj, err := adjuster.New(profile, logSvc)
	if err != nil {
		return err
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     cfg.Timeout,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		Cookie:      cfg.Cookie,
		CookieFile:  cfg.CookieFile,
		CFBypass:    cfg.CFBypass,
		DebugLogger: logSvc,
	})
	if err != nil {
		return err
	}

	doc, err := fetch.New(client, logSvc).Document(context.Background(), target)
	if err != nil {
		return err
	}

	if !flagFetchNoAdjust {
		res := adj.Apply(doc)
		logSvc.Infof("%s: %s\n", target, res)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Get(0)); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagFetchOut == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := util.WriteFileAtomic(flagFetchOut, buf.Bytes(), 0644); err != nil {
		return err
	}
	logSvc.Infof("saved %s (%s)\n", flagFetchOut, util.Human(int64(buf.Len())))

	return nil
}
