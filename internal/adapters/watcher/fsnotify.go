// Package watcher provides raw filesystem event sources and identity probing.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Source = (*FSNotifySource)(nil)

const eventChannelBuffer = 100

// FSNotifySource implements ports.Source using fsnotify.
// fsnotify reports a rename as a removal of the old path and a creation of the new one,
// so moves reach the engine as delete and create pairs.
type FSNotifySource struct {
	fsWatcher *fsnotify.Watcher
	filter    *Filter
	logger    ports.Logger
	events    chan domain.RawEvent
	// dirs holds every watched directory. Only the event goroutine touches it after Start.
	dirs map[string]struct{}
}

// NewFSNotifySource creates a new fsnotify backed source.
func NewFSNotifySource(logger ports.Logger, filter *Filter) (*FSNotifySource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBackendUnavailable.Error())
	}
	return &FSNotifySource{
		fsWatcher: watcher,
		filter:    filter,
		logger:    logger,
		events:    make(chan domain.RawEvent, eventChannelBuffer),
		dirs:      make(map[string]struct{}),
	}, nil
}

// Start begins watching the given root directory recursively.
func (s *FSNotifySource) Start(ctx context.Context, root string) error {
	for dir := range s.watchRecursively(root) {
		if err := s.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", dir)
		}
		s.dirs[dir] = struct{}{}
	}

	go s.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (s *FSNotifySource) Stop() error {
	return s.fsWatcher.Close()
}

// Events returns an iterator of raw events.
func (s *FSNotifySource) Events() iter.Seq[domain.RawEvent] {
	return drain(s.events)
}

// watchRecursively walks the directory tree and yields all directories that are not skipped.
func (s *FSNotifySource) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if d.IsDir() {
				if s.filter.SkipDir(path) {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

func (s *FSNotifySource) processEvents(ctx context.Context) {
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.fsWatcher.Events:
			if !ok {
				return
			}

			raw, ok := s.convertEvent(event)
			if !ok {
				continue
			}

			if raw.Kind == domain.RawCreated && raw.IsDir {
				for dir := range s.watchRecursively(event.Name) {
					if err := s.fsWatcher.Add(dir); err != nil {
						s.logger.Warn("failed to watch new directory " + dir)
						continue
					}
					s.dirs[dir] = struct{}{}
				}
			}

			if !s.filter.Allow(event.Name) {
				continue
			}

			select {
			case s.events <- raw:
			case <-ctx.Done():
				return
			}

		case err, ok := <-s.fsWatcher.Errors:
			if !ok {
				return
			}
			s.logger.Error(zerr.Wrap(err, "file system error"))
		}
	}
}

// convertEvent maps an fsnotify event to a raw event. Chmod events are dropped.
func (s *FSNotifySource) convertEvent(event fsnotify.Event) (domain.RawEvent, bool) {
	path := filepath.ToSlash(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(event.Name)
		isDir := err == nil && info.IsDir()
		return domain.RawEvent{Kind: domain.RawCreated, SrcPath: path, IsDir: isDir}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		_, isDir := s.dirs[event.Name]
		if isDir {
			s.forget(event.Name)
		}
		return domain.RawEvent{Kind: domain.RawDeleted, SrcPath: path, IsDir: isDir}, true
	case event.Has(fsnotify.Write):
		return domain.RawEvent{Kind: domain.RawModified, SrcPath: path}, true
	default:
		return domain.RawEvent{}, false
	}
}

// forget drops dir and every directory below it from the watched set.
func (s *FSNotifySource) forget(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range s.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(s.dirs, d)
			_ = s.fsWatcher.Remove(d)
		}
	}
}

// drain yields values from ch until it is closed or the consumer stops.
func drain[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}
}
