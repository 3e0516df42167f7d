package watcher

import (
	"path/filepath"
	"strings"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Filter decides which paths under the watched root are delivered.
type Filter struct {
	root     string
	include  []string
	ignore   []string
	priority domain.Priority
}

// NewFilter builds a Filter from the resolved configuration.
func NewFilter(cfg *domain.Config) *Filter {
	return &Filter{
		root:     filepath.Clean(cfg.Root),
		include:  cfg.Include,
		ignore:   cfg.Ignore,
		priority: cfg.Priority,
	}
}

// Allow reports whether events for path should be delivered.
// Ignore patterns match any path segment or the whole relative path.
// Include patterns match the base name or the whole relative path.
func (f *Filter) Allow(path string) bool {
	rel, ok := f.relative(path)
	if !ok {
		return false
	}
	if rel == "." {
		return true
	}

	included := f.matchInclude(rel)
	if f.priority == domain.PriorityInclude && included {
		return true
	}
	if f.matchIgnore(rel) {
		return false
	}
	return len(f.include) == 0 || included
}

// SkipDir reports whether a directory and everything below it should not be watched.
func (f *Filter) SkipDir(path string) bool {
	rel, ok := f.relative(path)
	if !ok {
		return true
	}
	if rel == "." {
		return false
	}
	if f.priority == domain.PriorityInclude && f.matchInclude(rel) {
		return false
	}
	return f.matchIgnore(rel)
}

func (f *Filter) relative(path string) (string, bool) {
	rel, err := filepath.Rel(f.root, filepath.FromSlash(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (f *Filter) matchIgnore(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, pattern := range f.ignore {
		if match(pattern, rel) {
			return true
		}
		for _, segment := range segments {
			if match(pattern, segment) {
				return true
			}
		}
	}
	return false
}

func (f *Filter) matchInclude(rel string) bool {
	base := domain.BaseName(rel)
	for _, pattern := range f.include {
		if match(pattern, rel) || match(pattern, base) {
			return true
		}
	}
	return false
}

func match(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
