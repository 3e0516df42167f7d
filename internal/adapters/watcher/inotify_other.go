//go:build !linux

package watcher

import (
	"runtime"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// NewInotifySource reports that inotify is not available on this platform.
func NewInotifySource(_ ports.Logger, _ *Filter) (ports.Source, error) {
	return nil, zerr.With(domain.ErrBackendUnavailable, "os", runtime.GOOS)
}
