package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/journal"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// chanSource is a ports.Source fed directly by the test.
type chanSource struct {
	ch   chan domain.RawEvent
	once sync.Once
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan domain.RawEvent, 10)}
}

func (s *chanSource) Start(context.Context, string) error { return nil }

func (s *chanSource) Stop() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}

func (s *chanSource) Events() iter.Seq[domain.RawEvent] {
	return func(yield func(domain.RawEvent) bool) {
		for ev := range s.ch {
			if !yield(ev) {
				return
			}
		}
	}
}

// syncBuffer is a bytes.Buffer safe to read while the watch loop writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

type watchFixture struct {
	app    *app.App
	loader *mocks.MockConfigLoader
	source *chanSource
	prober *mocks.MockIdentityProber
	clock  clockwork.FakeClock
	out    *syncBuffer
}

func newWatchFixture(t *testing.T, cfg *domain.Config) watchFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	factory := mocks.NewMockSourceFactory(ctrl)
	prober := mocks.NewMockIdentityProber(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	source := newChanSource()
	if cfg != nil {
		loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
		factory.EXPECT().NewSource(cfg).Return(source, nil)
	}

	clock := clockwork.NewFakeClock()
	out := &syncBuffer{}

	return watchFixture{
		app:    app.New(loader, factory, prober, log).WithClock(clock).WithOutput(out),
		loader: loader,
		source: source,
		prober: prober,
		clock:  clock,
		out:    out,
	}
}

func watchConfig(root string) *domain.Config {
	cfg := domain.DefaultConfig(root)
	cfg.Format = domain.FormatJSON
	return cfg
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t, watchConfig("/srv/not-on-disk"))
		f.prober.EXPECT().Probe("/srv/not-on-disk/b/f.txt").Return(domain.Identity(4), true)

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() { errCh <- f.app.Watch(ctx, app.WatchOptions{}) }()

		f.source.ch <- domain.RawEvent{Kind: domain.RawDeleted, SrcPath: "/srv/not-on-disk/a/f.txt"}
		f.source.ch <- domain.RawEvent{Kind: domain.RawCreated, SrcPath: "/srv/not-on-disk/b/f.txt"}
		f.source.ch <- domain.RawEvent{Kind: domain.RawDeleted, SrcPath: "/srv/not-on-disk/c.txt"}
		synctest.Wait()

		assert.Equal(t, []string{
			`{"type":"moved","path":"/srv/not-on-disk/b/f.txt","identity":4,"old_parent":"/srv/not-on-disk/a/f.txt","new_parent":"/srv/not-on-disk/b/f.txt"}`,
		}, f.out.Lines())

		// The sweep ticker expires the lone delete without any further raw event.
		f.clock.Advance(time.Second)
		synctest.Wait()

		assert.Equal(t,
			`{"type":"deleted","path":"/srv/not-on-disk/c.txt","identity":null}`,
			f.out.Lines()[1],
		)

		cancel()
		require.NoError(t, <-errCh)
		assert.Len(t, f.out.Lines(), 2)
	})
}

func TestApp_WatchFlushesOnShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t, watchConfig("/srv/not-on-disk"))
		f.prober.EXPECT().Probe("/srv/not-on-disk/new.txt").Return(domain.Identity(0), false)

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() { errCh <- f.app.Watch(ctx, app.WatchOptions{}) }()

		f.source.ch <- domain.RawEvent{Kind: domain.RawCreated, SrcPath: "/srv/not-on-disk/new.txt"}
		synctest.Wait()
		assert.Equal(t, []string{""}, f.out.Lines())

		cancel()
		require.NoError(t, <-errCh)
		assert.Equal(t, []string{
			`{"type":"created","path":"/srv/not-on-disk/new.txt","identity":null}`,
		}, f.out.Lines())
	})
}

func TestApp_WatchWritesJournal(t *testing.T) {
	root := t.TempDir()
	writeFile := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), domain.FilePerm))
	}
	writeFile("seeded.txt")

	synctest.Test(t, func(t *testing.T) {
		cfg := watchConfig(root)
		cfg.Journal = filepath.Join(root, domain.StateDirName, domain.JournalFileName)
		f := newWatchFixture(t, cfg)

		seeded := filepath.ToSlash(filepath.Join(root, "seeded.txt"))
		f.prober.EXPECT().Probe(seeded).Return(domain.Identity(77), true)

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() { errCh <- f.app.Watch(ctx, app.WatchOptions{}) }()

		f.source.ch <- domain.RawEvent{Kind: domain.RawDeleted, SrcPath: seeded}
		synctest.Wait()

		cancel()
		require.NoError(t, <-errCh)

		file, err := os.Open(cfg.Journal)
		require.NoError(t, err)
		defer file.Close()

		records, err := journal.Read(file)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.Event{Type: domain.EventDeleted, Path: seeded, Identity: domain.SomeIdentity(77)}, records[0].Event)
	})
}

func TestApp_WatchErrors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		f := newWatchFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigParseFailed)

		err := f.app.Watch(context.Background(), app.WatchOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
		assert.ErrorContains(t, err, "failed to load configuration")
	})

	t.Run("invalid override", func(t *testing.T) {
		f := newWatchFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any()).Return(watchConfig("/srv"), nil)

		err := f.app.Watch(context.Background(), app.WatchOptions{TieBreak: "coin"})
		assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
	})

	t.Run("source", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockConfigLoader(ctrl)
		factory := mocks.NewMockSourceFactory(ctrl)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Debug(gomock.Any()).AnyTimes()

		cfg := watchConfig("/srv/not-on-disk")
		loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
		unavailable := errors.New("no inotify")
		factory.EXPECT().NewSource(cfg).Return(nil, unavailable)

		a := app.New(loader, factory, mocks.NewMockIdentityProber(ctrl), log).WithOutput(&bytes.Buffer{})
		assert.ErrorIs(t, a.Watch(context.Background(), app.WatchOptions{}), unavailable)
	})
}
