package generator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SchemeResult holds the outcome of a single scheme.
type SchemeResult struct {
	Report Report
	Err    error
}

// Runner generates several schemes. Each scheme runs in its own goroutine
// with its own converter; a failing scheme does not stop the others.
type Runner struct {
	log      *slog.Logger
	gen      *Generator
	registry *Registry

	mu      sync.Mutex
	results map[string]SchemeResult
}

// NewRunner creates a new Runner.
func NewRunner(log *slog.Logger, gen *Generator, registry *Registry) *Runner {
	return &Runner{
		log:      log,
		gen:      gen,
		registry: registry,
		results:  make(map[string]SchemeResult),
	}
}

// Run resolves names (all registered schemes when empty) and generates each.
// Resolution happens before anything is written: an unknown name fails the
// whole run with domain.ErrUnknownScheme. Otherwise Run waits for every
// scheme and returns the first generation error, if any.
func (r *Runner) Run(ctx context.Context, names []string) error {
	schemes, err := r.registry.Resolve(names)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, s := range schemes {
		g.Go(func() error {
			r.log.Info("starting scheme", slog.String("scheme", s.Name))

			report, err := r.gen.Generate(ctx, s)
			r.record(s.Name, SchemeResult{Report: report, Err: err})

			if err != nil {
				r.log.Warn("scheme failed",
					slog.String("scheme", s.Name),
					slog.String("error", err.Error()),
				)
				return fmt.Errorf("scheme %s: %w", s.Name, err)
			}

			r.log.Info("scheme completed",
				slog.String("scheme", s.Name),
				slog.Int("artifacts", len(report.Artifacts)),
				slog.Duration("duration", report.Duration),
			)
			return nil
		})
	}

	err = g.Wait()
	r.log.Info("build completed", slog.Int("schemes_run", len(schemes)))
	return err
}

func (r *Runner) record(name string, res SchemeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[name] = res
}

// Results returns a copy of the per-scheme results after Run completes.
func (r *Runner) Results() map[string]SchemeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.results)
}

// HasErrors returns true if any scheme failed.
func (r *Runner) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.Err != nil {
			return true
		}
	}
	return false
}
