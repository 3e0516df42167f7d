package app

import (
	"context"
	"iter"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/engine/correlator"
	"go.trai.ch/rewatch/internal/engine/pathmap"
	"go.trai.ch/zerr"
)

var _ ports.RawListener = (*Bridge)(nil)

// Bridge adapts raw source notifications to the correlation engine.
// It probes the identity of created paths before the engine sees them.
type Bridge struct {
	paths  *pathmap.Map
	engine *correlator.Engine
	prober ports.IdentityProber
	logger ports.Logger
}

// NewBridge creates a Bridge feeding engine and recording identities in paths.
func NewBridge(paths *pathmap.Map, engine *correlator.Engine, prober ports.IdentityProber, logger ports.Logger) *Bridge {
	return &Bridge{paths: paths, engine: engine, prober: prober, logger: logger}
}

// Seed records the identity of every existing path so later deletes and moves carry it.
// It returns the number of paths recorded.
func (b *Bridge) Seed(paths iter.Seq[string]) int {
	n := 0
	for path := range paths {
		if b.track(path) {
			n++
		}
	}
	return n
}

// Dispatch routes a raw event to the matching listener method.
func Dispatch(ctx context.Context, l ports.RawListener, ev domain.RawEvent) error {
	switch ev.Kind {
	case domain.RawCreated:
		return l.OnCreated(ctx, ev.SrcPath, ev.IsDir)
	case domain.RawDeleted:
		return l.OnDeleted(ctx, ev.SrcPath, ev.IsDir)
	case domain.RawMoved:
		return l.OnMoved(ctx, ev.SrcPath, ev.DestPath, ev.IsDir)
	case domain.RawModified:
		return l.OnModified(ctx, ev.SrcPath, ev.IsDir)
	default:
		return zerr.With(domain.ErrUnknownEventType, "kind", ev.Kind.String())
	}
}

// OnCreated probes the new path and hands the creation to the engine.
func (b *Bridge) OnCreated(ctx context.Context, path string, isDir bool) error {
	if !b.track(path) {
		b.logger.Warn("identity probe failed for " + path)
	}
	return b.engine.Process(ctx, domain.RawEvent{Kind: domain.RawCreated, SrcPath: path, IsDir: isDir})
}

// OnDeleted hands a deletion to the engine.
func (b *Bridge) OnDeleted(ctx context.Context, path string, isDir bool) error {
	return b.engine.Process(ctx, domain.RawEvent{Kind: domain.RawDeleted, SrcPath: path, IsDir: isDir})
}

// OnMoved hands a native move to the engine.
func (b *Bridge) OnMoved(ctx context.Context, src, dest string, isDir bool) error {
	return b.engine.Process(ctx, domain.RawEvent{Kind: domain.RawMoved, SrcPath: src, DestPath: dest, IsDir: isDir})
}

// OnModified lets the engine expire stale pendings. Modifications produce no events.
func (b *Bridge) OnModified(ctx context.Context, path string, isDir bool) error {
	return b.engine.Process(ctx, domain.RawEvent{Kind: domain.RawModified, SrcPath: path, IsDir: isDir})
}

func (b *Bridge) track(path string) bool {
	id, ok := b.prober.Probe(path)
	if !ok {
		return false
	}
	return b.paths.Add(path, id) == nil
}
