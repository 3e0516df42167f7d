//go:build !unix

package watcher

import (
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
)

var _ ports.IdentityProber = Prober{}

// Prober has no stable file identity to offer on this platform.
type Prober struct{}

// Probe always reports an unknown identity.
func (Prober) Probe(string) (domain.Identity, bool) {
	return 0, false
}
