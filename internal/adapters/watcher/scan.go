package watcher

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Scan yields every path below root that filter allows, in lexical order.
// Paths use forward slashes. Unreadable entries are skipped.
func Scan(root string, filter *Filter) iter.Seq[string] {
	root = filepath.Clean(root)
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || path == root {
				return nil //nolint:nilerr // unreadable entries are skipped
			}
			if d.IsDir() && filter.SkipDir(path) {
				return fs.SkipDir
			}
			if !filter.Allow(path) {
				return nil
			}
			if !yield(filepath.ToSlash(path)) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
