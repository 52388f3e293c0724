package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/enabling-languages/vernacular/internal/adjuster"
	"github.com/enabling-languages/vernacular/internal/batch"
	"github.com/enabling-languages/vernacular/internal/config"
	"github.com/enabling-languages/vernacular/internal/ui"
	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagApplyOutput     string
	flagApplyInPlace    bool
	flagApplyWorkers    int
	flagApplySkipBroken bool
	flagApplyDryRun     bool
	flagApplyNoProgress bool
)

func init() {
	applyCmd := &cobra.Command{
		Use:   "apply <file|dir>...",
		Short: "Apply language styling to saved catalog pages",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runApply,
	}

	applyCmd.Flags().StringVar(&flagApplyOutput, "output", "", "output folder for rewritten pages")
	applyCmd.Flags().BoolVar(&flagApplyInPlace, "in-place", false, "overwrite the input files")
	applyCmd.Flags().IntVar(&flagApplyWorkers, "workers", 4, "parallel files")
	applyCmd.Flags().BoolVar(&flagApplySkipBroken, "skip-broken", false, "skip unreadable files instead of failing the run")
	applyCmd.Flags().BoolVar(&flagApplyDryRun, "dry-run", false, "report what would change, write nothing")
	applyCmd.Flags().BoolVar(&flagApplyNoProgress, "no-progress", false, "do not draw a progress bar")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	opts := config.Options{
		Output:     flagApplyOutput,
		InPlace:    flagApplyInPlace,
		SkipBroken: flagApplySkipBroken,
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = flagApplyWorkers
	}

	cfg, profile, logSvc, err := setup(opts)
	if err != nil {
		return err
	}

	adj, err := adjuster.New(profile, logSvc)
	if err != nil {
		return err
	}

	inputs, err := batch.Collect(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no HTML files found in %v", args)
	}

	outDir := cfg.Output
	if cfg.InPlace || flagApplyDryRun {
		outDir = ""
	}
	util.SetupInterruptHandler(outDir)

	proc := batch.New(adj, logSvc, batch.Options{
		OutputDir:  cfg.Output,
		InPlace:    cfg.InPlace,
		SkipBroken: cfg.SkipBroken,
		DryRun:     flagApplyDryRun,
	})

	var progress batch.Progress = ui.NopProgress{}
	var pm *ui.MPBProgressManager
	if !flagApplyNoProgress && !cfg.Debug {
		pm = ui.NewProgressManager(nil)
		progress = pm.Register(profile.Name)
	}

	start := time.Now()
	sum, runErr := proc.Run(context.Background(), inputs, cfg.Workers, progress)
	if pm != nil {
		pm.Close()
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("Files:      %d/%d\n", sum.Files, len(inputs))
	fmt.Printf("Containers: %d\n", sum.Containers)
	fmt.Printf("Vernacular: %d\n", sum.Marked)
	for _, r := range profile.Table.Overrides {
		fmt.Printf("  %-8s %d\n", r.Lang+":", sum.Overridden[r.Lang])
	}
	fmt.Printf("Data:       %s\n", util.Human(sum.Bytes))
	fmt.Printf("Time:       %s\n", time.Since(start).Round(time.Millisecond))
	switch {
	case flagApplyDryRun:
		fmt.Println("\nDry run, nothing written.")
	case cfg.InPlace:
		fmt.Println("\nInput files rewritten in place.")
	default:
		fmt.Printf("\nOutput: %s\n", cfg.Output)
	}

	return runErr
}
