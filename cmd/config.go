package cmd

import (
	"fmt"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vernacular config profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
			Profile:      flagProfile,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Loaded config from:\n  %s\n\n", used)
		cfg.Print()

		p, err := cfg.ResolveProfile()
		if err != nil {
			return err
		}
		fmt.Println()
		printProfile(p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
