//go:build unix

package watcher

import (
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"golang.org/x/sys/unix"
)

var _ ports.IdentityProber = Prober{}

// Prober resolves identities from inode numbers. Symlinks are not followed.
type Prober struct{}

// Probe returns the inode of path.
func (Prober) Probe(path string) (domain.Identity, bool) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, false
	}
	return domain.Identity(st.Ino), true
}
