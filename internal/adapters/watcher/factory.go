package watcher

import (
	"runtime"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFactory = (*Factory)(nil)

// Factory builds the raw event source selected by the configuration.
type Factory struct {
	Logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{Logger: logger}
}

// NewSource returns a source for cfg.Backend. The auto backend prefers inotify on Linux
// and falls back to fsnotify when inotify cannot be initialized.
func (f *Factory) NewSource(cfg *domain.Config) (ports.Source, error) {
	filter := NewFilter(cfg)

	switch cfg.Backend {
	case domain.BackendInotify:
		source, err := NewInotifySource(f.Logger, filter)
		if err != nil {
			return nil, err
		}
		return source, nil
	case domain.BackendFSNotify:
		return f.fsnotify(filter)
	case domain.BackendAuto:
		if runtime.GOOS == "linux" {
			source, err := NewInotifySource(f.Logger, filter)
			if err == nil {
				return source, nil
			}
			f.Logger.Warn("inotify unavailable, falling back to fsnotify")
		}
		return f.fsnotify(filter)
	default:
		return nil, zerr.With(domain.ErrInvalidConfig, "backend", string(cfg.Backend))
	}
}

func (f *Factory) fsnotify(filter *Filter) (ports.Source, error) {
	source, err := NewFSNotifySource(f.Logger, filter)
	if err != nil {
		return nil, err
	}
	return source, nil
}
