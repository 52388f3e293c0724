package cmd

import (
	"fmt"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Make another stored config the active one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListConfigs()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no configs available")
			}

			items := make([]string, 0, len(list))
			cursor := 0
			for i, c := range list {
				items = append(items, fmt.Sprintf("%s  [%s]", c.Label, c.Profile))
				if c.Active {
					cursor = i
				}
			}

			prompt := promptui.Select{
				Label:     "Select config",
				Items:     items,
				CursorPos: cursor,
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}

			label = list[idx].Label
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}

		path, _ := config.ConfigPathByLabel(label)
		fmt.Printf("Switched to %s (profile %s)\n", label, config.ProfileOf(path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
