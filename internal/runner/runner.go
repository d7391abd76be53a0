// Package runner drives repairs over a batch of files. The core repair
// packages never touch storage; the runner reads through a Source, repairs
// in memory, and persists through a Sink. Files are independent, so the
// batch is fanned out over an errgroup with bounded concurrency, and a
// failure in one file never blocks or corrupts another.
package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bracefix/internal/config"
	"bracefix/internal/repair"
	"bracefix/internal/report"
	"bracefix/internal/rules"
	"bracefix/internal/scan"
)

// Source supplies document content for a path.
type Source interface {
	Read(path string) (string, error)
}

// Sink persists repaired document content for a path.
type Sink interface {
	Write(path string, content string) error
}

// Outcome classifies what happened to one file.
type Outcome int

const (
	OutcomeModified Outcome = iota
	OutcomeSkipped          // nothing to do; document left untouched
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeModified:
		return "modified"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is the per-file record in a batch summary.
type FileResult struct {
	Path    string
	Outcome Outcome
	Report  repair.Report
	Diff    *report.Diff
	Err     error
}

// Summary is the result of one batch run.
type Summary struct {
	RunID    string
	Results  []FileResult
	Modified int
	Skipped  int
	Failed   int
}

// Options configures a Runner.
type Options struct {
	Jobs   int
	DryRun bool
	Logger *zap.Logger
}

// Runner applies a repair engine to batches of files.
type Runner struct {
	engine *repair.Engine
	source Source
	sink   Sink
	jobs   int
	dryRun bool
	logger *zap.Logger
}

// New builds a runner. A nil logger disables logging.
func New(engine *repair.Engine, source Source, sink Sink, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		engine: engine,
		source: source,
		sink:   sink,
		jobs:   jobs,
		dryRun: opts.DryRun,
		logger: logger,
	}
}

// Run repairs every path and returns the batch summary. Per-file failures
// are recorded in the summary, not returned; the error is non-nil only when
// the context is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	r.logger.Info("starting repair batch",
		zap.String("run_id", summary.RunID),
		zap.Int("files", len(paths)),
		zap.Int("jobs", r.jobs),
		zap.Bool("dry_run", r.dryRun))

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.jobs)

	for _, path := range paths {
		path := path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := r.repairFile(path)
			mu.Lock()
			summary.Results = append(summary.Results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return summary, err
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Path < summary.Results[j].Path
	})
	for _, res := range summary.Results {
		switch res.Outcome {
		case OutcomeModified:
			summary.Modified++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
	}

	r.logger.Info("repair batch finished",
		zap.String("run_id", summary.RunID),
		zap.Int("modified", summary.Modified),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// repairFile runs the engine over a single file. The original document is
// only replaced on a fully successful repair; a failed invocation leaves
// the file as it was.
func (r *Runner) repairFile(path string) FileResult {
	before, err := r.source.Read(path)
	if err != nil {
		r.logger.Warn("read failed", zap.String("path", path), zap.Error(err))
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: err}
	}

	after, rep, err := r.engine.Repair(before)
	if err != nil {
		r.logger.Warn("repair failed",
			zap.String("path", path),
			zap.Strings("applied", rep.Applied),
			zap.Error(err))
		return FileResult{Path: path, Outcome: OutcomeFailed, Report: rep, Err: err}
	}

	if !rep.Changed {
		r.logger.Debug("nothing to repair", zap.String("path", path))
		return FileResult{Path: path, Outcome: OutcomeSkipped, Report: rep}
	}

	diff := report.Compute(path, before, after)
	if !r.dryRun {
		if err := r.sink.Write(path, after); err != nil {
			r.logger.Warn("write failed", zap.String("path", path), zap.Error(err))
			return FileResult{Path: path, Outcome: OutcomeFailed, Report: rep, Err: err}
		}
	}

	added, removed := diff.Stats()
	r.logger.Info("repaired file",
		zap.String("path", path),
		zap.Strings("fixers", rep.Applied),
		zap.Int("lines_added", added),
		zap.Int("lines_removed", removed))
	return FileResult{Path: path, Outcome: OutcomeModified, Report: rep, Diff: diff}
}

// BuildFixers resolves a configuration into the ordered fixer list: named
// built-in fixers first (the whole catalog when none are named), then the
// configured block replacements.
func BuildFixers(cfg *config.Config) ([]repair.Fixer, error) {
	var fixers []repair.Fixer
	if len(cfg.Fixers) == 0 {
		fixers = rules.Catalog()
	} else {
		for _, name := range cfg.Fixers {
			f, ok := rules.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("unknown fixer %q", name)
			}
			fixers = append(fixers, f)
		}
	}

	for _, b := range cfg.Blocks {
		payload := scan.SplitLines(strings.TrimSuffix(b.Replacement, "\n"))
		fixers = append(fixers, rules.NewBlockReplacer(b.Name, b.Marker, payload))
	}
	return fixers, nil
}
