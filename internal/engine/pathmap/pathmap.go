// Package pathmap implements a bidirectional mapping between filesystem paths
// and stable identities, with subtree queries and subtree path rewrites.
package pathmap

import (
	"maps"
	"strings"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Map keeps path to identity and identity to path in lockstep.
// It is not safe for concurrent use.
type Map struct {
	byPath map[string]domain.Identity
	byID   map[domain.Identity]string
}

// New creates an empty Map.
func New() *Map {
	return &Map{
		byPath: make(map[string]domain.Identity),
		byID:   make(map[domain.Identity]string),
	}
}

// Add records that path currently carries id.
// A path or identity that was already tracked loses its previous partner,
// so both directions stay an exact inverse of each other.
func (m *Map) Add(path string, id domain.Identity) error {
	if path == "" {
		return domain.ErrEmptyPath
	}
	m.unlink(path, id)
	m.byPath[path] = id
	m.byID[id] = path
	return nil
}

// unlink drops stale entries that would break the inverse after path and id are paired.
func (m *Map) unlink(path string, id domain.Identity) {
	if oldID, ok := m.byPath[path]; ok && oldID != id {
		delete(m.byID, oldID)
	}
	if oldPath, ok := m.byID[id]; ok && oldPath != path {
		delete(m.byPath, oldPath)
	}
}

// Remove drops path and its identity. It reports whether path was tracked.
func (m *Map) Remove(path string) bool {
	id, ok := m.byPath[path]
	if !ok {
		return false
	}
	delete(m.byPath, path)
	delete(m.byID, id)
	return true
}

// Identity returns the identity tracked for path.
func (m *Map) Identity(path string) (domain.Identity, bool) {
	id, ok := m.byPath[path]
	return id, ok
}

// Path returns the path tracked for id.
func (m *Map) Path(id domain.Identity) (string, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// Len returns the number of tracked entries.
func (m *Map) Len() int {
	return len(m.byPath)
}

// Descendants returns every entry strictly under folder.
// Trailing separators on folder are ignored. The result is never nil.
func (m *Map) Descendants(folder string) map[string]domain.Identity {
	out := make(map[string]domain.Identity)
	if folder == "" {
		return out
	}
	prefix := domain.FolderPrefix(folder)
	for p, id := range m.byPath {
		if len(p) > len(prefix) && strings.HasPrefix(p, prefix) {
			out[p] = id
		}
	}
	return out
}

// BulkUpdatePaths rewrites oldFolder and every descendant to live under newFolder,
// keeping each identity. It returns the number of rewritten entries.
// Entries already present at the destination paths are replaced.
func (m *Map) BulkUpdatePaths(oldFolder, newFolder string) int {
	oldFolder = domain.CleanFolder(oldFolder)
	newFolder = domain.CleanFolder(newFolder)
	if oldFolder == "" || newFolder == "" || oldFolder == newFolder || oldFolder == domain.Separator {
		return 0
	}

	moved := m.Descendants(oldFolder)
	if id, ok := m.byPath[oldFolder]; ok {
		moved[oldFolder] = id
	}
	if len(moved) == 0 {
		return 0
	}

	// Remove every source entry before inserting, so overlapping old and new
	// subtrees never observe a half-applied rewrite.
	for p, id := range moved {
		delete(m.byPath, p)
		delete(m.byID, id)
	}
	for p, id := range moved {
		target := newFolder + strings.TrimPrefix(p, oldFolder)
		m.unlink(target, id)
		m.byPath[target] = id
		m.byID[id] = target
	}
	return len(moved)
}

// Snapshot returns a copy of the path to identity direction.
func (m *Map) Snapshot() map[string]domain.Identity {
	return maps.Clone(m.byPath)
}
