package pathmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/engine/pathmap"
)

func newMap(t *testing.T, entries map[string]domain.Identity) *pathmap.Map {
	t.Helper()
	m := pathmap.New()
	for p, id := range entries {
		require.NoError(t, m.Add(p, id))
	}
	return m
}

func TestMap_AddAndLookup(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{
		"/root/a.txt": 1,
		"/root/b.txt": 2,
	})

	id, ok := m.Identity("/root/a.txt")
	require.True(t, ok)
	assert.Equal(t, domain.Identity(1), id)

	p, ok := m.Path(2)
	require.True(t, ok)
	assert.Equal(t, "/root/b.txt", p)

	_, ok = m.Identity("/root/missing")
	assert.False(t, ok)
	_, ok = m.Path(99)
	assert.False(t, ok)

	assert.Equal(t, 2, m.Len())
}

func TestMap_AddEmptyPath(t *testing.T) {
	m := pathmap.New()
	err := m.Add("", 1)
	require.ErrorIs(t, err, domain.ErrEmptyPath)
	assert.Equal(t, 0, m.Len())
}

type entry struct {
	path string
	id   domain.Identity
}

func TestMap_AddKeepsExactInverse(t *testing.T) {
	tests := []struct {
		name      string
		adds      []entry
		wantPaths map[string]domain.Identity
	}{
		{
			name:      "path overwritten with new identity",
			adds:      []entry{{"/a", 1}, {"/a", 2}},
			wantPaths: map[string]domain.Identity{"/a": 2},
		},
		{
			name:      "identity reused by another path",
			adds:      []entry{{"/a", 1}, {"/b", 1}},
			wantPaths: map[string]domain.Identity{"/b": 1},
		},
		{
			name:      "same pair added twice",
			adds:      []entry{{"/a", 1}, {"/a", 1}},
			wantPaths: map[string]domain.Identity{"/a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pathmap.New()
			for _, a := range tt.adds {
				require.NoError(t, m.Add(a.path, a.id))
			}
			assert.Equal(t, tt.wantPaths, m.Snapshot())
			assertInverse(t, m)
		})
	}
}

func TestMap_Descendants(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{
		"/root/folder":         1,
		"/root/folder/a.txt":   2,
		"/root/folder/sub":     3,
		"/root/folder/sub/b":   4,
		"/root/folder2/c.txt":  5,
		"/root/folderish.txt":  6,
		"/root/other/folder/x": 7,
	})

	want := map[string]domain.Identity{
		"/root/folder/a.txt": 2,
		"/root/folder/sub":   3,
		"/root/folder/sub/b": 4,
	}

	assert.Equal(t, want, m.Descendants("/root/folder"))
	assert.Equal(t, want, m.Descendants("/root/folder/"))
	assert.Equal(t, want, m.Descendants("/root/folder//"))
	assert.Empty(t, m.Descendants("/root/folder/a.txt"))
	assert.NotNil(t, m.Descendants("/nowhere"))
	assert.Empty(t, m.Descendants("/nowhere"))
	assert.Empty(t, m.Descendants(""))
	assert.Len(t, m.Descendants("/"), 7)
}

func TestMap_BulkUpdatePaths(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{
		"/root/folder":       1,
		"/root/folder/a.txt": 2,
		"/root/folder/sub/b": 3,
		"/root/folder2x":     4,
	})

	n := m.BulkUpdatePaths("/root/folder/", "/root/moved")
	assert.Equal(t, 3, n)

	assert.Equal(t, map[string]domain.Identity{
		"/root/moved":       1,
		"/root/moved/a.txt": 2,
		"/root/moved/sub/b": 3,
		"/root/folder2x":    4,
	}, m.Snapshot())

	for _, old := range []string{"/root/folder", "/root/folder/a.txt", "/root/folder/sub/b"} {
		_, ok := m.Identity(old)
		assert.False(t, ok, old)
	}
	assertInverse(t, m)
}

func TestMap_BulkUpdatePaths_NoOp(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{"/root/keep": 1})

	assert.Equal(t, 0, m.BulkUpdatePaths("/root/untracked", "/root/elsewhere"))
	assert.Equal(t, 0, m.BulkUpdatePaths("/root/keep", "/root/keep/"))
	assert.Equal(t, 0, m.BulkUpdatePaths("/", "/mnt"))
	assert.Equal(t, map[string]domain.Identity{"/root/keep": 1}, m.Snapshot())
}

func TestMap_BulkUpdatePaths_FileOnly(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{"/a/f.txt": 9})

	assert.Equal(t, 1, m.BulkUpdatePaths("/a/f.txt", "/b/g.txt"))

	id, ok := m.Identity("/b/g.txt")
	require.True(t, ok)
	assert.Equal(t, domain.Identity(9), id)
	p, ok := m.Path(9)
	require.True(t, ok)
	assert.Equal(t, "/b/g.txt", p)
}

func TestMap_BulkUpdatePaths_ReplacesDestination(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{
		"/src/a": 1,
		"/dst/a": 2,
	})

	m.BulkUpdatePaths("/src", "/dst")

	assert.Equal(t, map[string]domain.Identity{"/dst/a": 1}, m.Snapshot())
	_, ok := m.Path(2)
	assert.False(t, ok)
	assertInverse(t, m)
}

func TestMap_Remove(t *testing.T) {
	m := newMap(t, map[string]domain.Identity{"/a/f.txt": 1, "/a/g.txt": 2})

	assert.True(t, m.Remove("/a/f.txt"))
	assert.False(t, m.Remove("/a/f.txt"))

	_, ok := m.Identity("/a/f.txt")
	assert.False(t, ok)
	_, ok = m.Path(1)
	assert.False(t, ok)
	assert.Equal(t, map[string]domain.Identity{"/a/g.txt": 2}, m.Snapshot())
	assertInverse(t, m)
}

func assertInverse(t *testing.T, m *pathmap.Map) {
	t.Helper()
	for p, id := range m.Snapshot() {
		back, ok := m.Path(id)
		if assert.True(t, ok, "missing reverse entry for %s", p) {
			assert.Equal(t, p, back)
		}
	}
}
