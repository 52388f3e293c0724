package cmd

import (
	"fmt"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagRemoveForce bool

var configRemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Remove a stored config; removing the active one falls back to " + config.DefaultLabel,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]

		force := flagRemoveForce
		if active, _ := config.CurrentLabel(); label == active && !force {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Config %q is active. Remove it and switch to %s", label, config.DefaultLabel),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
			force = true
		}

		fallback, err := config.RemoveConfig(label, force)
		if err != nil {
			return err
		}

		fmt.Printf("Removed config %q\n", label)
		if fallback != "" {
			path, _ := config.ConfigPathByLabel(fallback)
			fmt.Printf("Active config is now %s (profile %s)\n", fallback, config.ProfileOf(path))
		}
		return nil
	},
}

func init() {
	configRemoveCmd.Flags().BoolVarP(&flagRemoveForce, "force", "f", false, "remove the active config without asking")
	configCmd.AddCommand(configRemoveCmd)
}
