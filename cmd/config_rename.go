package cmd

import (
	"fmt"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/spf13/cobra"
)

var configRenameCmd = &cobra.Command{
	Use:   "rename <old_label> <new_label>",
	Short: "Rename a stored config, keeping it active if it was",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]
		if from == config.DefaultLabel {
			return fmt.Errorf("the %s config is the fallback and keeps its label", config.DefaultLabel)
		}

		if err := config.RenameConfig(from, to); err != nil {
			return err
		}

		path, _ := config.ConfigPathByLabel(to)
		fmt.Printf("Renamed %s to %s (profile %s)\n", from, to, config.ProfileOf(path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configRenameCmd)
}
