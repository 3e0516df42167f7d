//go:build linux

package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var _ ports.Source = (*InotifySource)(nil)

const (
	watchMask = unix.IN_CREATE | unix.IN_DELETE | unix.IN_DELETE_SELF |
		unix.IN_MOVED_FROM | unix.IN_MOVED_TO | unix.IN_CLOSE_WRITE
	// pollTimeoutMillis bounds how long the reader waits before checking for shutdown.
	pollTimeoutMillis = 100
	readBufferSize    = unix.SizeofInotifyEvent * 256
)

// InotifySource implements ports.Source using Linux inotify directly.
// Renames inside the watched tree are reported as native moves by pairing
// IN_MOVED_FROM and IN_MOVED_TO through their cookie.
type InotifySource struct {
	filter  *Filter
	logger  ports.Logger
	fd      int
	watches map[string]int
	wdPaths map[int]string
	events  chan domain.RawEvent
	done    chan struct{}
	stop    sync.Once
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

type movedFrom struct {
	path  string
	isDir bool
}

// NewInotifySource initializes an inotify instance.
func NewInotifySource(logger ports.Logger, filter *Filter) (*InotifySource, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBackendUnavailable.Error())
	}
	return &InotifySource{
		filter:  filter,
		logger:  logger,
		fd:      fd,
		watches: make(map[string]int),
		wdPaths: make(map[int]string),
		events:  make(chan domain.RawEvent, eventChannelBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Start watches root recursively and begins reading events.
func (s *InotifySource) Start(ctx context.Context, root string) error {
	if err := s.addWatch(filepath.Clean(root)); err != nil {
		return err
	}
	s.watchDir(root)

	s.wg.Add(1)
	go s.readEvents(ctx)
	return nil
}

// Stop stops reading, closes the inotify descriptor and ends the event iterator.
func (s *InotifySource) Stop() error {
	var closeErr error
	s.stop.Do(func() {
		close(s.done)
		s.wg.Wait()
		closeErr = unix.Close(s.fd)
		close(s.events)
	})
	return closeErr
}

// Events returns an iterator of raw events.
func (s *InotifySource) Events() iter.Seq[domain.RawEvent] {
	return drain(s.events)
}

// watchDir adds watches for every directory below path that is not skipped.
func (s *InotifySource) watchDir(path string) {
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable directories are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if s.filter.SkipDir(p) {
			return fs.SkipDir
		}
		if err := s.addWatch(p); err != nil {
			s.logger.Warn("failed to watch " + p)
		}
		return nil
	})
}

func (s *InotifySource) addWatch(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.watches[path]; exists {
		return nil
	}

	wd, err := unix.InotifyAddWatch(s.fd, path, watchMask)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}

	s.watches[path] = wd
	s.wdPaths[wd] = path
	return nil
}

// dropWatch forgets a watch descriptor the kernel has already released.
func (s *InotifySource) dropWatch(wd int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path, ok := s.wdPaths[wd]; ok {
		delete(s.watches, path)
		delete(s.wdPaths, wd)
	}
}

// renameWatches rewrites the recorded paths of src and every watch below it.
// The kernel keeps the descriptors attached to the moved directories.
func (s *InotifySource) renameWatches(src, dest string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := src + string(filepath.Separator)
	for path, wd := range s.watches {
		if path != src && !strings.HasPrefix(path, prefix) {
			continue
		}
		renamed := dest + strings.TrimPrefix(path, src)
		delete(s.watches, path)
		s.watches[renamed] = wd
		s.wdPaths[wd] = renamed
	}
}

func (s *InotifySource) readEvents(ctx context.Context) {
	defer s.wg.Done()

	buf := make([]byte, readBufferSize)
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}} //nolint:gosec // descriptor fits in int32

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		ready, err := unix.Poll(fds, pollTimeoutMillis)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			s.logger.Error(zerr.Wrap(err, "failed to poll inotify"))
			return
		}
		if ready == 0 {
			continue
		}

		n, err := unix.Read(s.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			s.logger.Error(zerr.Wrap(err, "failed to read inotify events"))
			return
		}
		if n < unix.SizeofInotifyEvent {
			continue
		}

		if !s.parseEvents(ctx, buf[:n]) {
			return
		}
	}
}

// parseEvents translates one read buffer. A move whose halves both arrive in the
// buffer becomes a native move. An unmatched IN_MOVED_FROM left the watched tree
// and is reported as a deletion.
func (s *InotifySource) parseEvents(ctx context.Context, buf []byte) bool {
	moves := make(map[uint32]movedFrom)
	var order []uint32

	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buf) {
		//nolint:gosec // G103: inotify events are read straight from the kernel buffer
		event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		nameStart := offset + unix.SizeofInotifyEvent
		offset = nameStart + int(event.Len)

		wd := int(event.Wd)
		mask := event.Mask

		if mask&unix.IN_Q_OVERFLOW != 0 {
			s.logger.Warn("inotify queue overflowed, events were lost")
			continue
		}
		if mask&unix.IN_IGNORED != 0 {
			s.dropWatch(wd)
			continue
		}

		s.mu.RLock()
		dir, ok := s.wdPaths[wd]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		path := dir
		if event.Len > 0 && offset <= len(buf) {
			name := buf[nameStart:offset]
			path = filepath.Join(dir, string(name[:clen(name)]))
		}
		isDir := mask&unix.IN_ISDIR != 0

		var raw domain.RawEvent
		switch {
		case mask&unix.IN_MOVED_FROM != 0:
			moves[event.Cookie] = movedFrom{path: path, isDir: isDir}
			order = append(order, event.Cookie)
			continue
		case mask&unix.IN_MOVED_TO != 0:
			from, paired := moves[event.Cookie]
			if paired {
				delete(moves, event.Cookie)
				raw = s.moved(from, path, isDir)
			} else {
				raw = s.created(path, isDir)
			}
		case mask&unix.IN_CREATE != 0:
			raw = s.created(path, isDir)
		case mask&unix.IN_DELETE != 0:
			raw = domain.RawEvent{Kind: domain.RawDeleted, SrcPath: filepath.ToSlash(path), IsDir: isDir}
		case mask&unix.IN_CLOSE_WRITE != 0:
			raw = domain.RawEvent{Kind: domain.RawModified, SrcPath: filepath.ToSlash(path)}
		default:
			continue
		}

		if !s.send(ctx, path, raw) {
			return false
		}
	}

	for _, cookie := range order {
		from, ok := moves[cookie]
		if !ok {
			continue
		}
		if from.isDir {
			s.removeWatches(from.path)
		}
		raw := domain.RawEvent{Kind: domain.RawDeleted, SrcPath: filepath.ToSlash(from.path), IsDir: from.isDir}
		if !s.send(ctx, from.path, raw) {
			return false
		}
	}
	return true
}

func (s *InotifySource) created(path string, isDir bool) domain.RawEvent {
	if isDir {
		s.watchDir(path)
	}
	return domain.RawEvent{Kind: domain.RawCreated, SrcPath: filepath.ToSlash(path), IsDir: isDir}
}

func (s *InotifySource) moved(from movedFrom, dest string, isDir bool) domain.RawEvent {
	if isDir {
		s.renameWatches(from.path, dest)
	}
	return domain.RawEvent{
		Kind:     domain.RawMoved,
		SrcPath:  filepath.ToSlash(from.path),
		DestPath: filepath.ToSlash(dest),
		IsDir:    isDir,
	}
}

// removeWatches releases the watches of a directory that left the watched tree.
func (s *InotifySource) removeWatches(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := dir + string(filepath.Separator)
	for path, wd := range s.watches {
		if path != dir && !strings.HasPrefix(path, prefix) {
			continue
		}
		//nolint:gosec // G115: wd is always a small non-negative int from inotify
		_, _ = unix.InotifyRmWatch(s.fd, uint32(wd))
		delete(s.watches, path)
		delete(s.wdPaths, wd)
	}
}

func (s *InotifySource) send(ctx context.Context, path string, raw domain.RawEvent) bool {
	if !s.filter.Allow(path) {
		return true
	}
	select {
	case s.events <- raw:
		return true
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	}
}

// clen returns the length of a null-terminated byte slice.
func clen(n []byte) int {
	for i := range n {
		if n[i] == 0 {
			return i
		}
	}
	return len(n)
}
