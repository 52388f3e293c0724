package cmd

import (
	"fmt"
	"os"

	"github.com/enabling-languages/vernacular/internal/userscript"
	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagScriptOut      string
	flagScriptName     string
	flagScriptVersion  string
	flagScriptRequire  []string
	flagScriptBodyOnly bool
)

func init() {
	userscriptCmd := &cobra.Command{
		Use:   "userscript",
		Short: "Emit the styling rules as an installable userscript (Tampermonkey, Violentmonkey, Greasemonkey)",
		Args:  cobra.NoArgs,
		RunE:  runUserscript,
	}

	userscriptCmd.Flags().StringVarP(&flagScriptOut, "out", "o", "", "write to this file instead of stdout")
	userscriptCmd.Flags().StringVar(&flagScriptName, "name", "", "@name of the script")
	userscriptCmd.Flags().StringVar(&flagScriptVersion, "script-version", "", "@version of the script")
	userscriptCmd.Flags().StringSliceVar(&flagScriptRequire, "require", nil, "@require URLs to preload")
	userscriptCmd.Flags().BoolVar(&flagScriptBodyOnly, "body-only", false, "omit the ==UserScript== metadata block")

	rootCmd.AddCommand(userscriptCmd)
}

func runUserscript(cmd *cobra.Command, _ []string) error {
	_, profile, logSvc, err := setup(httpOptions())
	if err != nil {
		return err
	}

	meta := userscript.DefaultMetadata()
	if flagScriptName != "" {
		meta.Name = flagScriptName
	}
	if flagScriptVersion != "" {
		meta.Version = flagScriptVersion
	}
	meta.Require = flagScriptRequire

	var out string
	if flagScriptBodyOnly {
		out, err = userscript.Script(profile)
	} else {
		out, err = userscript.Render(meta, profile)
	}
	if err != nil {
		return err
	}

	if flagScriptOut == "" {
		_, err := fmt.Fprint(os.Stdout, out)
		return err
	}

	if err := util.WriteFileAtomic(flagScriptOut, []byte(out), 0644); err != nil {
		return err
	}
	logSvc.Infof("wrote %s for profile %s\n", flagScriptOut, profile.Name)

	return nil
}
