package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rewatch/internal/adapters/logger"
	"go.trai.ch/rewatch/internal/core/ports"
)

const (
	// SourceFactoryNodeID is the unique identifier for the raw event source factory Graft node.
	SourceFactoryNodeID graft.ID = "adapter.watcher"
	// ProberNodeID is the unique identifier for the identity prober Graft node.
	ProberNodeID graft.ID = "adapter.identity_prober"
)

func init() {
	graft.Register(graft.Node[ports.SourceFactory]{
		ID:        SourceFactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SourceFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})

	graft.Register(graft.Node[ports.IdentityProber]{
		ID:        ProberNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IdentityProber, error) {
			return Prober{}, nil
		},
	})
}
