// Package repair orchestrates document repairs. An Engine owns an ordered
// list of fixers and threads a document through them, classifying each
// fixer's outcome: applied, nothing-to-do, or failed. The engine never
// touches storage; callers hand it text and persist the result themselves.
package repair

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bracefix/internal/scan"
)

// Fixer repairs one class of defect in a document. Fix returns the
// (possibly unchanged) document. A fixer whose structural marker is absent
// returns an error wrapping scan.ErrNoMatch; the engine treats that as a
// no-op rather than a failure.
type Fixer interface {
	Name() string
	Fix(doc string) (string, error)
}

// Report records what an engine invocation did to one document.
type Report struct {
	Applied []string // fixers that changed the document
	Skipped []string // fixers that ran but found nothing to change
	Changed bool
}

// Engine applies fixers to documents in a fixed order.
type Engine struct {
	fixers []Fixer
	logger *zap.Logger
}

// NewEngine builds an engine that applies fixers in the given order.
func NewEngine(fixers ...Fixer) *Engine {
	return &Engine{fixers: fixers, logger: zap.NewNop()}
}

// WithLogger sets the engine's logger and returns the engine.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Fixers returns the fixer names in application order.
func (e *Engine) Fixers() []string {
	names := make([]string, len(e.fixers))
	for i, f := range e.fixers {
		names[i] = f.Name()
	}
	return names
}

// Repair runs every fixer once, in order. A fixer reporting
// scan.ErrNoMatch is skipped. Any other fixer error aborts the invocation;
// the document returned alongside the error reflects the fixers that
// already ran, which the caller is free to discard.
func (e *Engine) Repair(doc string) (string, Report, error) {
	var report Report
	for _, fixer := range e.fixers {
		next, err := fixer.Fix(doc)
		if errors.Is(err, scan.ErrNoMatch) {
			e.logger.Debug("fixer found nothing to do", zap.String("fixer", fixer.Name()))
			report.Skipped = append(report.Skipped, fixer.Name())
			continue
		}
		if err != nil {
			return doc, report, fmt.Errorf("fixer %s: %w", fixer.Name(), err)
		}
		if next == doc {
			report.Skipped = append(report.Skipped, fixer.Name())
			continue
		}
		e.logger.Debug("fixer changed document",
			zap.String("fixer", fixer.Name()),
			zap.Int("delta", len(next)-len(doc)))
		report.Applied = append(report.Applied, fixer.Name())
		report.Changed = true
		doc = next
	}
	return doc, report, nil
}
