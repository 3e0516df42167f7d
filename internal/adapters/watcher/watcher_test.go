package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const eventTimeout = 5 * time.Second

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

// realRoot resolves symlinks so event paths match on systems where the temp dir is a link.
func realRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return root
}

// startSource starts src on root and forwards its events to a channel.
func startSource(t *testing.T, src ports.Source, root string) <-chan domain.RawEvent {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, src.Start(ctx, root))

	ch := make(chan domain.RawEvent, 100)
	go func() {
		defer close(ch)
		for ev := range src.Events() {
			ch <- ev
		}
	}()

	t.Cleanup(func() {
		cancel()
		_ = src.Stop()
	})
	return ch
}

// waitFor returns the first event accepted by match, failing after eventTimeout.
// Events before it are returned as well so tests can assert what was skipped.
func waitFor(t *testing.T, ch <-chan domain.RawEvent, match func(domain.RawEvent) bool) (domain.RawEvent, []domain.RawEvent) {
	t.Helper()
	var seen []domain.RawEvent
	timeout := time.After(eventTimeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event stream closed, saw %v", seen)
			}
			if match(ev) {
				return ev, seen
			}
			seen = append(seen, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for event, saw %v", seen)
		}
	}
}

func kind(k domain.RawKind, path string) func(domain.RawEvent) bool {
	return func(ev domain.RawEvent) bool {
		return ev.Kind == k && ev.SrcPath == filepath.ToSlash(path)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), domain.FilePerm))
}
