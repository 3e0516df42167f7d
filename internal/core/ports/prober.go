package ports

import "go.trai.ch/rewatch/internal/core/domain"

// IdentityProber resolves the identity of a filesystem object.
//
//go:generate mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type IdentityProber interface {
	// Probe returns the identity of path, or false when it cannot be determined.
	Probe(path string) (domain.Identity, bool)
}
