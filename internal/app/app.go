// Package app implements the application layer for rewatch.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/rewatch/internal/adapters/detector"
	"go.trai.ch/rewatch/internal/adapters/hub"
	"go.trai.ch/rewatch/internal/adapters/journal"
	"go.trai.ch/rewatch/internal/adapters/printer"
	"go.trai.ch/rewatch/internal/adapters/watcher"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/engine/correlator"
	"go.trai.ch/rewatch/internal/engine/pathmap"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	sources      ports.SourceFactory
	prober       ports.IdentityProber
	logger       ports.Logger
	clock        clockwork.Clock
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sources ports.SourceFactory,
	prober ports.IdentityProber,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		sources:      sources,
		prober:       prober,
		logger:       log,
		clock:        clockwork.NewRealClock(),
		stdout:       os.Stdout,
	}
}

// WithClock replaces the clock used by the engine, the sweep ticker and the journal.
// This is primarily used for testing.
func (a *App) WithClock(clock clockwork.Clock) *App {
	a.clock = clock
	return a
}

// WithOutput replaces the writer semantic events are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Dir is the directory to watch. It defaults to the configured root.
	Dir      string
	Format   domain.Format
	Debounce time.Duration
	TieBreak domain.TieBreak
	// NoJournal disables the configured journal.
	NoJournal bool
}

// Watch streams semantic events for the configured tree until ctx is cancelled.
// Pending events are flushed before it returns.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	events := hub.New()
	format := detector.ResolveFormat(detector.DetectFormat(), cfg.Format)
	events.Subscribe("printer", printer.New(a.stdout, format))

	if cfg.Journal != "" && !opts.NoJournal {
		j, err := journal.Open(cfg.Journal, a.clock)
		if err != nil {
			return err
		}
		defer func() {
			if err := j.Close(); err != nil {
				a.logger.Error(zerr.Wrap(err, "failed to close journal"))
			}
		}()
		events.Subscribe("journal", j)
	}

	paths := pathmap.New()
	engine := correlator.New(paths, events,
		correlator.WithWindow(cfg.Debounce),
		correlator.WithClock(a.clock),
		correlator.WithLogger(a.logger),
		correlator.WithTieBreak(cfg.TieBreak),
	)
	bridge := NewBridge(paths, engine, a.prober, a.logger)

	seeded := bridge.Seed(watcher.Scan(cfg.Root, watcher.NewFilter(cfg)))
	a.logger.Debug("tracking " + strconv.Itoa(seeded) + " existing paths")

	source, err := a.sources.NewSource(cfg)
	if err != nil {
		return err
	}
	if err := source.Start(ctx, cfg.Root); err != nil {
		_ = source.Stop()
		return err
	}
	a.logger.Info("watching " + cfg.Root)

	return a.loop(ctx, source, bridge, engine, cfg.Sweep)
}

// loop forwards raw events to the bridge and sweeps on every tick.
// All engine calls happen on the consumer goroutine.
func (a *App) loop(
	ctx context.Context,
	source ports.Source,
	bridge *Bridge,
	engine *correlator.Engine,
	sweep time.Duration,
) error {
	raw := make(chan domain.RawEvent)

	g, gctx := errgroup.WithContext(ctx)

	// Source Routine
	g.Go(func() error {
		defer close(raw)
		for ev := range source.Events() {
			select {
			case raw <- ev:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	// Engine Routine
	g.Go(func() error {
		defer func() {
			if err := source.Stop(); err != nil {
				a.logger.Error(zerr.Wrap(err, "failed to stop source"))
			}
		}()

		ticker := a.clock.NewTicker(sweep)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				a.flush(ctx, engine)
				return nil
			case ev, ok := <-raw:
				if !ok {
					a.flush(ctx, engine)
					return nil
				}
				if err := Dispatch(gctx, bridge, ev); err != nil {
					a.logger.Error(err)
				}
			case <-ticker.Chan():
				if err := engine.Sweep(gctx); err != nil {
					a.logger.Error(err)
				}
			}
		}
	})

	return g.Wait()
}

func (a *App) flush(ctx context.Context, engine *correlator.Engine) {
	if err := engine.Flush(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error(err)
	}
}

func (a *App) loadConfig(opts WatchOptions) (*domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	if opts.Dir != "" {
		cwd, err = filepath.Abs(opts.Dir)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "dir", opts.Dir)
		}
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Dir != "" {
		cfg.Root = cwd
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.Debounce > 0 {
		cfg.Debounce = opts.Debounce
	}
	if opts.TieBreak != "" {
		cfg.TieBreak = opts.TieBreak
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
