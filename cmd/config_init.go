package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/enabling-languages/vernacular/internal/config"
	"github.com/enabling-languages/vernacular/internal/rules"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	flagInitProfile string
	flagInitYes     bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config for a rule profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := flagInitProfile
		if profile == "" {
			sel := promptui.Select{
				Label: "Rule profile",
				Items: rules.ProfileNames(),
			}
			var err error
			if _, profile, err = sel.Run(); err != nil {
				return fmt.Errorf("selection cancelled")
			}
		}
		if _, err := rules.ProfileByName(profile); err != nil {
			return err
		}

		def := config.DefaultConfig()
		def.Profile = profile

		fmt.Println("Default configuration:")
		def.Print()
		fmt.Println()

		if !flagInitYes {
			confirm := promptui.Prompt{
				Label:     "Write it to " + config.ConfigsDir(),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		path, err := config.InitDefaultConfig()
		if errors.Is(err, os.ErrExist) {
			fmt.Printf("%s already exists and is now active; use `vernacular config reset` to overwrite it.\n", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		if err := config.SaveYAML(def, path); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Printf("Created %s (profile %s, label Default, active)\n", path, profile)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&flagInitProfile, "profile", "", "rule profile to start from (prompted when empty)")
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
