package cmd

import (
	"fmt"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/spf13/cobra"
)

var flagResetProfile bool

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the active config to defaults, keeping its rule profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		activePath, err := config.ActiveConfigPath()
		if err != nil {
			return err
		}

		def := config.DefaultConfig()
		if !flagResetProfile {
			if p := config.ProfileOf(activePath); p != "?" {
				def.Profile = p
			}
		}

		if err := config.SaveYAML(def, activePath); err != nil {
			return err
		}

		fmt.Printf("Reset %s (profile %s)\n", activePath, def.Profile)
		return nil
	},
}

func init() {
	configResetCmd.Flags().BoolVar(&flagResetProfile, "profile", false, "also reset the rule profile to the default one")
	configCmd.AddCommand(configResetCmd)
}
