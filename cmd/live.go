package cmd

import (
	"context"
	"fmt"

	"github.com/enabling-languages/vernacular/internal/browser"
	"github.com/enabling-languages/vernacular/internal/rules"
	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagLiveOut     string
	flagLiveHeadful bool
	flagLiveChrome  string
	flagLiveSummary bool
)

func init() {
	liveCmd := &cobra.Command{
		Use:   "live <url>",
		Short: "Open a catalog page in headless Chrome and run the styling in the live DOM",
		Long: "Open a catalog page in headless Chrome, run the styling script once the document is ready " +
			"(exactly as the userscript would) and report what changed. Content the page inserts later is not styled.",
		Args: cobra.ExactArgs(1),
		RunE: runLive,
	}

	liveCmd.Flags().StringVarP(&flagLiveOut, "out", "o", "", "save the styled DOM to this file")
	liveCmd.Flags().BoolVar(&flagLiveHeadful, "show", false, "show the browser window")
	liveCmd.Flags().StringVar(&flagLiveChrome, "chrome", "", "path to the Chrome/Chromium binary")
	liveCmd.Flags().BoolVar(&flagLiveSummary, "summary", true, "print the per-language summary")
	liveCmd.Flags().BoolVar(&flagAnyURL, "any-url", false, "do not check the URL against the profile's @match patterns")
	addHTTPFlags(liveCmd)

	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg, profile, logSvc, err := setup(httpOptions())
	if err != nil {
		return err
	}

	if err := checkMatch(profile, target); err != nil {
		return err
	}

	runner := browser.NewRunner(browser.Options{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Cookie:    util.CookieHeader(cfg.Cookie, cfg.CookieFile),
		Headless:  !flagLiveHeadful,
		ExecPath:  flagLiveChrome,
	}, logSvc)
	defer runner.Close()

	out, err := runner.Run(context.Background(), target, profile)
	if err != nil {
		return err
	}

	if flagLiveSummary {
		s := out.Summary
		fmt.Printf("Page:       %s\n", out.URL)
		fmt.Printf("Containers: %d", s.Containers)
		if len(s.Missing) > 0 {
			fmt.Printf(" (missing: %v)", s.Missing)
		}
		fmt.Println()
		fmt.Printf("Vernacular: %d\n", s.Marked)
		for _, r := range profile.Table.Overrides {
			fmt.Printf("  %-8s %d\n", r.Lang+":", s.Overridden[rules.CanonicalLang(r.Lang)])
		}
	}

	if flagLiveOut != "" {
		page := "<!DOCTYPE html>\n" + out.HTML
		if err := util.WriteFileAtomic(flagLiveOut, []byte(page), 0644); err != nil {
			return err
		}
		logSvc.Infof("saved %s (%s)\n", flagLiveOut, util.Human(int64(len(page))))
	}

	return nil
}
