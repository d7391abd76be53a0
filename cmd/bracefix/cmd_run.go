package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bracefix/internal/repair"
	"bracefix/internal/runner"
)

var (
	dryRun   bool
	showDiff bool
	jobs     int
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Repair the configured target files once",
	Long: `Applies the configured fixers to each target file and rewrites the
files that changed. Paths on the command line override the config's
target list. Failures in one file never stop the rest of the batch;
the exit status is non-zero if any file failed.`,
	RunE: runRepairs,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing files")
	runCmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff for each modified file")
	runCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "max files repaired concurrently (default from config)")
}

func runRepairs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets := cfg.Targets
	if len(args) > 0 {
		targets = args
	}
	if len(targets) == 0 {
		return fmt.Errorf("no target files: pass paths or set targets in the config")
	}

	fixers, err := runner.BuildFixers(cfg)
	if err != nil {
		return err
	}
	engine := repair.NewEngine(fixers...).WithLogger(logger)

	if jobs <= 0 {
		jobs = cfg.Jobs
	}
	fs := runner.OSFileSystem{}
	r := runner.New(engine, fs, fs, runner.Options{
		Jobs:   jobs,
		DryRun: dryRun,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := r.Run(ctx, targets)
	if err != nil {
		return err
	}
	printSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(summary.Results))
	}
	return nil
}

func printSummary(summary *runner.Summary) {
	for _, res := range summary.Results {
		switch res.Outcome {
		case runner.OutcomeModified:
			fmt.Printf("  %-8s %s (%v)\n", res.Outcome, res.Path, res.Report.Applied)
			if (showDiff || dryRun) && res.Diff != nil {
				fmt.Print(res.Diff.Render())
			}
		case runner.OutcomeFailed:
			fmt.Printf("  %-8s %s: %v\n", res.Outcome, res.Path, res.Err)
		default:
			fmt.Printf("  %-8s %s\n", res.Outcome, res.Path)
		}
	}
	fmt.Printf("%d modified, %d skipped, %d failed (run %s)\n",
		summary.Modified, summary.Skipped, summary.Failed, summary.RunID)
}
