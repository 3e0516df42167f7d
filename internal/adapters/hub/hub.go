// Package hub fans semantic events out to several sinks.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Sink = (*Hub)(nil)

type subscriber struct {
	name string
	sink ports.Sink
}

// Hub delivers every event to each subscriber in subscription order.
// A failing or panicking subscriber does not stop delivery to the others.
// Failures are returned to the caller, which decides how to report them.
type Hub struct {
	mu          sync.RWMutex
	subscribers []subscriber
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{}
}

// Subscribe adds a named sink.
func (h *Hub) Subscribe(name string, sink ports.Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, subscriber{name: name, sink: sink})
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Emit delivers event to every subscriber and joins their failures.
func (h *Hub) Emit(ctx context.Context, event domain.Event) error {
	h.mu.RLock()
	subscribers := h.subscribers
	h.mu.RUnlock()

	var errs []error
	for _, sub := range subscribers {
		if err := deliver(ctx, sub.sink, event); err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, domain.ErrSubscriberFailed.Error()), "subscriber", sub.name))
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, sink ports.Sink, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.New("subscriber panicked"), "panic", fmt.Sprint(r))
		}
	}()
	return sink.Emit(ctx, event)
}
