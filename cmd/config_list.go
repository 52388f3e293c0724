package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/enabling-languages/vernacular/internal/config"

	"github.com/spf13/cobra"
)

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored configs and the rule profile each one selects",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := config.ListConfigs()
		if err != nil {
			return fmt.Errorf("cannot read configs directory: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No configs yet. Run `vernacular config init`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, "\tLABEL\tPROFILE\tPATH")
		for _, c := range list {
			mark := ""
			if c.Active {
				mark = "*"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, c.Label, c.Profile, c.Path)
		}

		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
}
