package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bracefix/internal/repair"
	"bracefix/internal/runner"
	"bracefix/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-repair target files whenever they change",
	Long: `Watches the configured target files and re-applies the fixers each
time one of them is written. Editor save storms are debounced. Stop
with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("watch needs targets in the config")
	}

	fixers, err := runner.BuildFixers(cfg)
	if err != nil {
		return err
	}
	engine := repair.NewEngine(fixers...).WithLogger(logger)
	fs := runner.OSFileSystem{}
	r := runner.New(engine, fs, fs, runner.Options{Jobs: 1, Logger: logger})

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(cfg.Targets, debounce, func(path string) {
		summary, runErr := r.Run(ctx, []string{path})
		if runErr != nil {
			logger.Warn("repair run aborted", zap.String("path", path), zap.Error(runErr))
			return
		}
		printSummary(summary)
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("watching %d files, Ctrl-C to stop\n", len(cfg.Targets))
	<-ctx.Done()
	return nil
}
