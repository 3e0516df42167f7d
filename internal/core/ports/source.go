package ports

import (
	"context"
	"iter"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Source defines the interface for a raw filesystem event source.
//
//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type Source interface {
	// Start begins watching the given root directory recursively.
	// It returns an error if the source fails to start.
	Start(ctx context.Context, root string) error
	// Stop stops the source and releases all resources.
	Stop() error
	// Events returns an iterator of raw events with slash separated paths.
	// The iterator ends when the source stops.
	Events() iter.Seq[domain.RawEvent]
}

// SourceFactory builds a Source for the resolved configuration.
type SourceFactory interface {
	NewSource(cfg *domain.Config) (Source, error)
}
