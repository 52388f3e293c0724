package cmd

import (
	"fmt"
	"os"

	"github.com/enabling-languages/vernacular/internal/config"
	"github.com/enabling-languages/vernacular/internal/rules"
	"github.com/enabling-languages/vernacular/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagProfile      string
)

var rootCmd = &cobra.Command{
	Use:           "vernacular",
	Short:         "Font and direction support for original-script text in library catalog pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", fmt.Sprintf("built-in rule profile %v", rules.ProfileNames()))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup is the common start of every page command: merged config, the
// resolved profile and a logger.
func setup(opts config.Options) (*config.Config, rules.Profile, *ui.Logger, error) {
	opts.IgnoreConfig = flagIgnoreConfig
	opts.Debug = opts.Debug || flagDebug
	if opts.Profile == "" {
		opts.Profile = flagProfile
	}

	cfg, usedPath, err := config.LoadMerged(opts)
	if err != nil {
		return nil, rules.Profile{}, nil, err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	logSvc.Debugf("config: %s\n", usedPath)

	p, err := cfg.ResolveProfile()
	if err != nil {
		return nil, rules.Profile{}, nil, err
	}

	return cfg, p, logSvc, nil
}

func printProfile(p rules.Profile) {
	fmt.Printf("Profile %s:\n", p.Name)
	fmt.Printf(" -containers: %v (font: %s)\n", p.Containers, p.ContainerFont)
	fmt.Printf(" -marker: %s\n", p.Marker)
	fmt.Printf(" -default: dir=%s\n", p.Table.Default.Dir)
	for _, r := range p.Table.Overrides {
		fmt.Printf(" -%s: dir=%s font=%s\n", r.Lang, r.Dir, r.Font)
	}
	if len(p.Match) > 0 {
		fmt.Printf(" -match: %v\n", p.Match)
	}
}
