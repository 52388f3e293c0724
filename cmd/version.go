package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/enabling-languages/vernacular/internal/rules"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

func versionString() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version and the built-in rule profiles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vernacular", versionString())
		fmt.Println("profiles:", strings.Join(rules.ProfileNames(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
