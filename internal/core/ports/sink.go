package ports

import (
	"context"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Sink receives semantic events from the correlation engine.
//
//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks
type Sink interface {
	// Emit delivers one event. A returned error is propagated to the engine's caller.
	Emit(ctx context.Context, event domain.Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event domain.Event) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}
