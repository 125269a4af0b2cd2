package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"astcmp/internal/ui"
)

// EntryKind discriminates what the walker found at a path.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindOther
)

// FileEntry is one classified directory entry produced during traversal.
type FileEntry struct {
	Path string
	Kind EntryKind
}

// FilePair relates a file under the original root to its counterpart under
// the modified root.
type FilePair struct {
	Original string
	Modified string
}

// DiscoveryError reports a directory that could not be listed.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot list directory '%s': %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Walk returns the absolute paths of all regular files beneath roots whose
// extension matches ext. Traversal is an explicit stack popped from the end,
// so the order is deterministic but not sorted; callers must treat the result
// as an unordered set. Non-regular entries (pipes, sockets, devices) are
// logged and skipped. An unlistable directory fails the whole walk.
func Walk(roots []string, ext string) ([]string, error) {
	var files []string

	stack := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, &DiscoveryError{Path: root, Err: err}
		}
		stack = append(stack, abs)
	}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := listDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			switch entry.Kind {
			case KindDir:
				stack = append(stack, entry.Path)
			case KindFile:
				if filepath.Ext(entry.Path) == ext {
					files = append(files, entry.Path)
				}
			default:
				ui.Warning("skipping non-regular entry: %s", entry.Path)
			}
		}
	}
	return files, nil
}

// listDir classifies the contents of a single directory. Symlinks are
// resolved, so a link to a regular file counts as a file; a broken link is
// reported as KindOther.
func listDir(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Path: dir, Err: err}
	}

	classified := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		kind := KindOther
		if info, err := os.Stat(path); err == nil {
			switch {
			case info.IsDir():
				kind = KindDir
			case info.Mode().IsRegular():
				kind = KindFile
			}
		}
		classified = append(classified, FileEntry{Path: path, Kind: kind})
	}
	return classified, nil
}

// PairPath maps a file under origRoot to its counterpart under modRoot by
// replacing the first occurrence of origRoot in the path, then cleaning the
// result. It is a pure string mapping; no existence check is made, so a
// missing counterpart surfaces later as a parse failure.
func PairPath(origPath, origRoot, modRoot string) string {
	return filepath.Clean(strings.Replace(origPath, origRoot, modRoot, 1))
}

// Pairs derives the modified-side counterpart for every discovered file.
func Pairs(files []string, origRoot, modRoot string) []FilePair {
	pairs := make([]FilePair, 0, len(files))
	for _, file := range files {
		pairs = append(pairs, FilePair{
			Original: file,
			Modified: PairPath(file, origRoot, modRoot),
		})
	}
	return pairs
}
