package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/enabling-languages/vernacular/internal/config"
	"github.com/enabling-languages/vernacular/internal/rules"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagAddFrom string

var configAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Create a new config, from defaults or from an existing YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string
		if len(args) == 1 {
			label = strings.TrimSpace(args[0])
		} else {
			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Enter label for new config: ")
			label, _ = reader.ReadString('\n')
			label = strings.TrimSpace(label)
		}

		if label == "" {
			return fmt.Errorf("label cannot be empty")
		}

		if flagAddFrom != "" {
			if err := config.AddConfig(label, flagAddFrom); err != nil {
				return err
			}
			fmt.Printf("Imported %s as config %q\n", flagAddFrom, label)
			return nil
		}

		prompt := promptui.Select{
			Label: "Base profile",
			Items: rules.ProfileNames(),
		}
		_, profile, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("selection cancelled")
		}

		def := config.DefaultConfig()
		def.Profile = profile
		path, err := config.CreateConfig(label, def)
		if err != nil {
			return err
		}

		fmt.Printf("Created config %q (profile %s): %s\n", label, profile, path)
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&flagAddFrom, "from", "", "import an existing YAML config file")
	configCmd.AddCommand(configAddCmd)
}
