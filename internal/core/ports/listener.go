package ports

import "context"

// RawListener receives raw filesystem notifications one at a time.
// Implementations are not required to be safe for concurrent use.
//
//go:generate mockgen -source=listener.go -destination=mocks/mock_listener.go -package=mocks
type RawListener interface {
	OnCreated(ctx context.Context, path string, isDir bool) error
	OnDeleted(ctx context.Context, path string, isDir bool) error
	OnMoved(ctx context.Context, src, dest string, isDir bool) error
	OnModified(ctx context.Context, path string, isDir bool) error
}
