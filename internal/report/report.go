// Package report prints divergence summaries and, in debug mode, persists
// syntax trees and difference lists for offline inspection.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"astcmp/differ"
	"astcmp/internal/fs"
	"astcmp/internal/parser"
	"astcmp/internal/ui"
)

// Suffixes of the persisted artifacts.
const (
	treeSuffix = ".ast"
	diffSuffix = ".ast.diff"
)

// PersistError reports an artifact that could not be written.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cannot write '%s': %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Reporter writes per-pair comparison output. With Debug set, divergent pairs
// additionally persist both trees and the difference list next to the
// compared files.
type Reporter struct {
	Debug bool
}

// Report handles one compared pair. Equal results produce no output and no
// side effects. The only error it can return is a PersistError.
func (r *Reporter) Report(pair fs.FilePair, orig, mod *parser.Node, res differ.Result) error {
	if res.Equal() {
		return nil
	}

	ui.Error("syntax trees differ: %s", pair.Original)
	for _, rec := range res.Records {
		printPositions(rec)
	}

	if !r.Debug {
		ui.Info("run with --debug to persist both syntax trees and the diff")
		return nil
	}
	return r.persist(pair, orig, mod, res)
}

// printPositions prints the source positions carried by a record, when any.
// Scalar-valued records carry no position and print nothing.
func printPositions(rec differ.Record) {
	left, leftOK := position(rec.Left)
	right, rightOK := position(rec.Right)

	switch {
	case leftOK && rightOK:
		ui.Path("%s (%s): original %s, modified %s", rec.Path, rec.Kind, left, right)
	case leftOK:
		ui.Path("%s (%s): original %s", rec.Path, rec.Kind, left)
	case rightOK:
		ui.Path("%s (%s): modified %s", rec.Path, rec.Kind, right)
	}
}

// position extracts "line:column" from a generic node value, which stores its
// location under loc.start. Numbers may be int (in-memory) or float64
// (decoded JSON).
func position(v any) (string, bool) {
	node, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	loc, ok := node["loc"].(map[string]any)
	if !ok {
		return "", false
	}
	start, ok := loc["start"].(map[string]any)
	if !ok {
		return "", false
	}
	line, lineOK := asInt(start["line"])
	col, colOK := asInt(start["column"])
	if !lineOK || !colOK {
		return "", false
	}
	return fmt.Sprintf("%d:%d", line, col), true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// persist writes the three debug artifacts for a divergent pair. Any write
// failure is fatal for the run, so the first failing path aborts.
func (r *Reporter) persist(pair fs.FilePair, orig, mod *parser.Node, res differ.Result) error {
	artifacts := []struct {
		path  string
		value any
	}{
		{pair.Original + diffSuffix, res.Records},
		{pair.Original + treeSuffix, orig.Generic()},
		{pair.Modified + treeSuffix, mod.Generic()},
	}
	for _, artifact := range artifacts {
		data, err := json.MarshalIndent(artifact.value, "", "    ")
		if err != nil {
			return &PersistError{Path: artifact.path, Err: err}
		}
		if err := os.WriteFile(artifact.path, append(data, '\n'), 0644); err != nil {
			return &PersistError{Path: artifact.path, Err: err}
		}
		ui.Verbose("wrote %s", artifact.path)
	}
	return nil
}
