// Package correlator turns raw filesystem notifications into created, deleted
// and moved events. Native moves are applied immediately. A delete and a
// create that share a basename within the debounce window are paired into a
// single move.
package correlator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/engine/pathmap"
	"go.trai.ch/zerr"
)

// Engine correlates raw events. It holds no locks: callers must serialize
// calls to Process, Sweep and Flush.
type Engine struct {
	paths    *pathmap.Map
	sink     ports.Sink
	clock    clockwork.Clock
	logger   ports.Logger
	window   time.Duration
	tieBreak domain.TieBreak

	deletes pendingSet
	creates pendingSet
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow sets the debounce window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.window = d
		}
	}
}

// WithClock sets the clock used to timestamp pending events.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the diagnostic logger. Logging never changes the outcome of a call.
func WithLogger(l ports.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTieBreak sets how ambiguous pairings are resolved.
func WithTieBreak(tb domain.TieBreak) Option {
	return func(e *Engine) {
		if tb != "" {
			e.tieBreak = tb
		}
	}
}

// New creates an Engine that tracks identities in paths and emits to sink.
func New(paths *pathmap.Map, sink ports.Sink, opts ...Option) *Engine {
	e := &Engine{
		paths:    paths,
		sink:     sink,
		clock:    clockwork.NewRealClock(),
		logger:   nopLogger{},
		window:   domain.DefaultDebounceWindow,
		tieBreak: domain.TieBreakNearest,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window returns the debounce window.
func (e *Engine) Window() time.Duration {
	return e.window
}

// Pending returns the number of unresolved deletes and creates.
func (e *Engine) Pending() (deletes, creates int) {
	return e.deletes.len(), e.creates.len()
}

// Process classifies one raw event and emits the resulting semantic events.
// All state changes are applied before the first emit, so a failing sink
// never leaves the engine inconsistent. Sink errors are joined and returned.
func (e *Engine) Process(ctx context.Context, ev domain.RawEvent) error {
	now := e.clock.Now()

	var out []domain.Event
	switch ev.Kind {
	case domain.RawMoved:
		if ev.DestPath != "" {
			return e.emit(ctx, e.applyMove(ev.SrcPath, ev.DestPath))
		}
		// A move without a destination left the watched tree.
		out = e.recordDelete(ev.SrcPath, now)
	case domain.RawDeleted:
		out = e.recordDelete(ev.SrcPath, now)
	case domain.RawCreated:
		out = e.recordCreate(ev.SrcPath, now)
	case domain.RawModified:
	default:
		e.logger.Debug(fmt.Sprintf("ignoring raw event of kind %d for %s", ev.Kind, ev.SrcPath))
	}

	out = append(out, e.expire(now, false)...)
	return e.emit(ctx, out)
}

// Sweep emits every pending event older than the debounce window.
// It is the periodic tick for quiet trees.
func (e *Engine) Sweep(ctx context.Context) error {
	return e.emit(ctx, e.expire(e.clock.Now(), false))
}

// Flush emits every pending event as a standalone created or deleted event,
// regardless of age. A second Flush without new events emits nothing.
func (e *Engine) Flush(ctx context.Context) error {
	return e.emit(ctx, e.expire(e.clock.Now(), true))
}

// applyMove handles a native move: the subtree is rewritten in the map, every
// descendant is reported, and the moved root is reported last.
func (e *Engine) applyMove(src, dest string) []domain.Event {
	src = domain.CleanFolder(src)
	dest = domain.CleanFolder(dest)

	n := e.paths.BulkUpdatePaths(src, dest)
	e.logger.Debug(fmt.Sprintf("native move %s -> %s rewrote %d entries", src, dest, n))

	out := movedUnder(src, dest, e.paths.Descendants(dest))
	return append(out, domain.Event{
		Type:      domain.EventMoved,
		Path:      dest,
		Identity:  domain.OptionalOf(e.paths.Identity(dest)),
		OldParent: src,
		NewParent: dest,
	})
}

// movedUnder reports every entry of desc, keyed by its new path, as moved from src, in path order.
func movedUnder(src, dest string, desc map[string]domain.Identity) []domain.Event {
	keys := make([]string, 0, len(desc))
	for p := range desc {
		keys = append(keys, p)
	}
	slices.Sort(keys)

	out := make([]domain.Event, 0, len(keys)+1)
	for _, p := range keys {
		out = append(out, domain.Event{
			Type:      domain.EventMoved,
			Path:      p,
			Identity:  domain.SomeIdentity(desc[p]),
			OldParent: src,
			NewParent: dest,
		})
	}
	return out
}

func (e *Engine) recordDelete(path string, now time.Time) []domain.Event {
	del := &pending{
		path:       path,
		observedAt: now,
		event: domain.Event{
			Type:     domain.EventDeleted,
			Path:     path,
			Identity: domain.OptionalOf(e.paths.Identity(path)),
		},
	}
	e.deletes.put(del)

	cre := e.match(&e.creates, path, now)
	if cre == nil {
		return nil
	}
	return e.resolve(del, cre)
}

func (e *Engine) recordCreate(path string, now time.Time) []domain.Event {
	cre := &pending{
		path:       path,
		observedAt: now,
		event: domain.Event{
			Type:     domain.EventCreated,
			Path:     path,
			Identity: domain.OptionalOf(e.paths.Identity(path)),
		},
	}
	e.creates.put(cre)

	del := e.match(&e.deletes, path, now)
	if del == nil {
		return nil
	}
	return e.resolve(del, cre)
}

// match finds the counterpart for path in set according to the tie-break policy.
func (e *Engine) match(set *pendingSet, path string, now time.Time) *pending {
	candidates := set.candidates(domain.BaseName(path), now, e.window)
	p := pick(candidates, e.tieBreak)
	if p == nil && len(candidates) > 1 {
		e.logger.Debug(fmt.Sprintf("ambiguous pairing for %s: %d candidates rejected", path, len(candidates)))
	}
	return p
}

// resolve pairs a delete and a create into a move and drops both pendings.
// When the deleted path was a tracked directory its surviving subtree follows it.
func (e *Engine) resolve(del, cre *pending) []domain.Event {
	e.deletes.remove(del.path)
	e.creates.remove(cre.path)
	e.logger.Debug(fmt.Sprintf("paired delete %s with create %s", del.path, cre.path))

	var out []domain.Event
	if del.path != cre.path {
		out = movedUnder(del.path, cre.path, e.carrySubtree(del.path, cre.path))
		e.forget(del.path, del.event.Identity)
	}
	if id, ok := cre.event.Identity.Get(); ok {
		_ = e.paths.Add(cre.path, id)
	}

	return append(out, domain.Event{
		Type:      domain.EventMoved,
		Path:      cre.path,
		Identity:  cre.event.Identity,
		OldParent: del.path,
		NewParent: cre.path,
	})
}

// carrySubtree moves the tracked descendants of src under dest and returns them
// keyed by their new path. Entries with a pending delete of their own are left
// for that delete to report, and a destination path that is already tracked
// keeps its probed identity.
func (e *Engine) carrySubtree(src, dest string) map[string]domain.Identity {
	prefix := domain.FolderPrefix(src)
	var stale []string
	carried := make(map[string]domain.Identity)
	for p, id := range e.paths.Descendants(src) {
		if e.deletes.covers(p) {
			continue
		}
		stale = append(stale, p)
		target := domain.FolderPrefix(dest) + strings.TrimPrefix(p, prefix)
		if _, live := e.paths.Identity(target); live && !strings.HasPrefix(target, prefix) {
			continue
		}
		carried[target] = id
	}

	for _, p := range stale {
		e.paths.Remove(p)
	}
	for p, id := range carried {
		_ = e.paths.Add(p, id)
	}
	return carried
}

// forget drops path from the map while it still carries the identity seen at observation.
func (e *Engine) forget(path string, seen domain.OptionalIdentity) {
	id, ok := seen.Get()
	if !ok {
		return
	}
	if cur, tracked := e.paths.Identity(path); tracked && cur == id {
		e.paths.Remove(path)
	}
}

// expire removes and returns the standalone events for expired pendings, deletes first.
// An expired delete releases its map entry.
func (e *Engine) expire(now time.Time, force bool) []domain.Event {
	var out []domain.Event
	for _, p := range e.deletes.expire(now, e.window, force) {
		e.forget(p.path, p.event.Identity)
		out = append(out, p.event)
	}
	for _, p := range e.creates.expire(now, e.window, force) {
		out = append(out, p.event)
	}
	return out
}

func (e *Engine) emit(ctx context.Context, events []domain.Event) error {
	var errs []error
	for _, ev := range events {
		if err := e.sink.Emit(ctx, ev); err != nil {
			err = zerr.With(zerr.Wrap(err, "emit failed"), "path", ev.Path)
			errs = append(errs, zerr.With(err, "type", string(ev.Type)))
		}
	}
	return errors.Join(errs...)
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}
