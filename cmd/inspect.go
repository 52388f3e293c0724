package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/enabling-languages/vernacular/internal/adjuster"
	"github.com/enabling-languages/vernacular/internal/fetch"
	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var flagInspectWidth int

func init() {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file|url>",
		Short: "List vernacular elements with their language, applied rule and detected direction",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	inspectCmd.Flags().IntVar(&flagInspectWidth, "width", 40, "maximum display width of the text column")
	addHTTPFlags(inspectCmd)

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	src := args[0]

	cfg, profile, logSvc, err := setup(httpOptions())
	if err != nil {
		return err
	}

	adj, err := adjuster.New(profile, logSvc)
	if err != nil {
		return err
	}

	var doc *goquery.Document
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
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
		doc, err = fetch.New(client, logSvc).Document(context.Background(), src)
		if err != nil {
			return err
		}
	} else {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()

		doc, err = goquery.NewDocumentFromReader(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", src, err)
		}
	}

	findings := adj.Inspect(doc)
	if len(findings) == 0 {
		fmt.Printf("No elements match %s\n", profile.Marker)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tLANG\tRULE\tDIR\tTEXT-DIR\tFONT\tTEXT")

	mismatches := 0
	for _, f := range findings {
		lang := f.Lang
		if lang == "" {
			lang = "-"
		}
		strong := string(f.Strong)
		if strong == "" {
			strong = "-"
		}
		if f.Dir != "auto" && f.Strong != "" && f.Dir != f.Strong {
			strong += " !"
			mismatches++
		}
		font := f.Font
		if font == "" {
			font = "-"
		}
		text := runewidth.Truncate(f.Text, flagInspectWidth, "…")

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", f.Index, lang, f.Rule, f.Dir, strong, font, text)
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to flush table output: %v\n", err)
	}

	if mismatches > 0 {
		fmt.Printf("\n%d element(s) get a direction that differs from their text (marked !)\n", mismatches)
	}

	return nil
}
