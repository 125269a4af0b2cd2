// Package astcmp checks that two versions of a JavaScript source tree parse
// to structurally identical syntax trees. Formatting, whitespace and source
// positions never count as differences; node kinds, identifiers and literal
// values do. It is the library interface behind the astcmp command.
package astcmp

import (
	"context"

	"astcmp/differ"
	"astcmp/internal/app"
	"astcmp/internal/cli"
	"astcmp/internal/parser"
)

// Options configures a CompareDirs run.
type Options struct {
	// OriginalRoot and ModifiedRoot are the two source trees to compare.
	OriginalRoot string
	ModifiedRoot string
	// Subdirs are scanned under OriginalRoot. Defaults to ["tests"].
	Subdirs []string
	// Debug persists trees and diff lists next to divergent pairs.
	Debug bool
	// Jobs is the number of pairs compared concurrently. Defaults to 1.
	Jobs int
}

// CompareDirs runs the full pipeline over two source trees, reporting
// divergences to stderr. A divergence is not an error; discovery, parse and
// persist failures are.
func CompareDirs(ctx context.Context, opts Options) error {
	cfg := &cli.Config{
		OriginalRoot: opts.OriginalRoot,
		ModifiedRoot: opts.ModifiedRoot,
		Subdirs:      opts.Subdirs,
		Debug:        opts.Debug,
		Jobs:         opts.Jobs,
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return app.New(cfg).Run(ctx)
}

// CompareValues diffs two already-built JSON-shaped values (nested maps,
// slices and scalars) with the same position-key handling the tree
// comparison uses.
func CompareValues(left, right any) differ.Result {
	return differ.Compare(left, right)
}

// CompareFiles parses two JavaScript files and diffs their syntax trees.
func CompareFiles(origPath, modPath string) (differ.Result, error) {
	orig, err := parser.ParseFile(origPath)
	if err != nil {
		return differ.Result{}, err
	}
	mod, err := parser.ParseFile(modPath)
	if err != nil {
		return differ.Result{}, err
	}
	return differ.Compare(orig.Generic(), mod.Generic()), nil
}

// CompareSource parses two source texts and diffs their syntax trees. The
// names only label parse errors.
func CompareSource(origName string, orig []byte, modName string, mod []byte) (differ.Result, error) {
	origTree, err := parser.Parse(origName, orig)
	if err != nil {
		return differ.Result{}, err
	}
	modTree, err := parser.Parse(modName, mod)
	if err != nil {
		return differ.Result{}, err
	}
	return differ.Compare(origTree.Generic(), modTree.Generic()), nil
}
