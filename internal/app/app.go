// Package app orchestrates the comparison pipeline: discover file pairs,
// parse both sides, diff the trees, report. Pairs are processed sequentially
// by default; with Jobs > 1 parsing and diffing fan out to a bounded worker
// pool while reports are still flushed in discovery order.
package app

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"astcmp/differ"
	"astcmp/internal/cli"
	"astcmp/internal/fs"
	"astcmp/internal/parser"
	"astcmp/internal/report"
	"astcmp/internal/ui"
)

// sourceExt is the only extension the walker picks up.
const sourceExt = ".js"

// App drives one configured comparison run.
type App struct {
	cfg      *cli.Config
	reporter *report.Reporter
}

// New creates an App from an already-validated configuration.
func New(cfg *cli.Config) *App {
	return &App{
		cfg:      cfg,
		reporter: &report.Reporter{Debug: cfg.Debug},
	}
}

// pairResult is everything one compared pair produces. It lives from the
// pair's comparison until its report is flushed, then it is dropped; handing
// it to a callback is the seam that would let a collect-all-failures mode
// replace the current fail-fast behavior without touching the workers.
type pairResult struct {
	pair     fs.FilePair
	original *parser.Node
	modified *parser.Node
	result   differ.Result
}

// Run executes the whole pipeline. Each pair is reported as soon as it has
// been compared, so divergences found before a later pair fails fatally are
// already on the console when the run aborts. Structural divergences do not
// produce an error; only discovery, parse and persist failures do.
func (a *App) Run(ctx context.Context) error {
	roots := make([]string, 0, len(a.cfg.Subdirs))
	for _, sub := range a.cfg.Subdirs {
		roots = append(roots, filepath.Join(a.cfg.OriginalRoot, sub))
	}

	files, err := fs.Walk(roots, sourceExt)
	if err != nil {
		return err
	}
	pairs := fs.Pairs(files, a.cfg.OriginalRoot, a.cfg.ModifiedRoot)
	ui.Verbose("comparing %d file pair(s)", len(pairs))

	divergent := 0
	reportPair := func(res *pairResult) error {
		if err := a.reporter.Report(res.pair, res.original, res.modified, res.result); err != nil {
			return err
		}
		if !res.result.Equal() {
			divergent++
		}
		return nil
	}

	if a.cfg.Jobs > 1 {
		err = a.compareParallel(ctx, pairs, reportPair)
	} else {
		err = a.compareSequential(ctx, pairs, reportPair)
	}
	if err != nil {
		return err
	}

	ui.Verbose("done: %d of %d pair(s) diverged", divergent, len(pairs))
	return nil
}

// compareSequential processes pairs one at a time, reporting each before the
// next is parsed and stopping at the first failure.
func (a *App) compareSequential(ctx context.Context, pairs []fs.FilePair, report func(*pairResult) error) error {
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := comparePair(pair)
		if err != nil {
			return err
		}
		if err := report(res); err != nil {
			return err
		}
	}
	return nil
}

// compareParallel fans parsing and diffing out to cfg.Jobs workers. Each
// finished worker flushes the completed prefix of results in discovery order,
// so output matches sequential mode. The first failure cancels the group.
func (a *App) compareParallel(ctx context.Context, pairs []fs.FilePair, report func(*pairResult) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Jobs)

	f := &flusher{
		results: make([]*pairResult, len(pairs)),
		report:  report,
	}
	for i, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := comparePair(pair)
			if err != nil {
				return err
			}
			return f.complete(i, res)
		})
	}
	return g.Wait()
}

// flusher serializes per-pair reporting in discovery order while workers
// finish in arbitrary order.
type flusher struct {
	mu      sync.Mutex
	next    int
	results []*pairResult
	report  func(*pairResult) error
}

// complete stores a finished pair and reports every result that is now part
// of the contiguous completed prefix. Reported results are released.
func (f *flusher) complete(i int, res *pairResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.results[i] = res
	for f.next < len(f.results) && f.results[f.next] != nil {
		ready := f.results[f.next]
		f.results[f.next] = nil
		f.next++
		if err := f.report(ready); err != nil {
			return err
		}
	}
	return nil
}

// comparePair parses both sides of a pair and diffs the trees. Pairs share no
// state, so this is safe to call from multiple goroutines.
func comparePair(pair fs.FilePair) (*pairResult, error) {
	orig, err := parser.ParseFile(pair.Original)
	if err != nil {
		return nil, err
	}
	mod, err := parser.ParseFile(pair.Modified)
	if err != nil {
		return nil, err
	}
	return &pairResult{
		pair:     pair,
		original: orig,
		modified: mod,
		result:   differ.Compare(orig.Generic(), mod.Generic()),
	}, nil
}
