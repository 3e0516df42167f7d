package app

import (
	"context"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/rewatch/internal/adapters/detector"
	"go.trai.ch/rewatch/internal/adapters/printer"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/engine/correlator"
	"go.trai.ch/rewatch/internal/engine/pathmap"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// replayEpoch is the fake clock's start time. Event offsets are relative to it.
var replayEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ReplayScript is a recorded raw event sequence.
type ReplayScript struct {
	Window   time.Duration `yaml:"window"`
	TieBreak string        `yaml:"tie_break"`
	// Identities are tracked before the first event.
	Identities map[string]uint64 `yaml:"identities"`
	Events     []ReplayEvent     `yaml:"events"`
}

// ReplayEvent is one scripted raw event.
type ReplayEvent struct {
	// At is the offset from the start of the script. Offsets must not decrease.
	At   time.Duration `yaml:"at"`
	Type string        `yaml:"type"`
	Path string        `yaml:"path"`
	Dest string        `yaml:"dest"`
	Dir  bool          `yaml:"dir"`
	// Identity is what the identity probe reports for Path. Unset means the probe fails.
	Identity *uint64 `yaml:"identity"`
}

// ReplayOptions configuration for the Replay method.
type ReplayOptions struct {
	Format domain.Format
}

// scriptedProber answers identity probes from the script.
type scriptedProber map[string]domain.Identity

func (p scriptedProber) Probe(path string) (domain.Identity, bool) {
	id, ok := p[path]
	return id, ok
}

// Replay feeds the script at path through a fresh engine on a fake clock and prints
// the resulting events. Pending events are flushed after the last scripted event.
func (a *App) Replay(ctx context.Context, path string, opts ReplayOptions) error {
	script, err := LoadReplayScript(path)
	if err != nil {
		return err
	}

	raw, err := script.rawEvents()
	if err != nil {
		return zerr.With(err, "path", path)
	}

	tieBreak, err := domain.ParseTieBreak(script.TieBreak)
	if err != nil {
		return err
	}

	format := detector.ResolveFormat(detector.DetectFormat(), opts.Format)
	sink := printer.New(a.stdout, format)
	clock := clockwork.NewFakeClockAt(replayEpoch)

	paths := pathmap.New()
	for _, p := range slices.Sorted(maps.Keys(script.Identities)) {
		if err := paths.Add(p, domain.Identity(script.Identities[p])); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrReplayParseFailed.Error()), "identity", p)
		}
	}

	engine := correlator.New(paths, sink,
		correlator.WithWindow(script.Window),
		correlator.WithClock(clock),
		correlator.WithLogger(a.logger),
		correlator.WithTieBreak(tieBreak),
	)
	prober := scriptedProber{}
	bridge := NewBridge(paths, engine, prober, a.logger)

	var elapsed time.Duration
	for i, ev := range script.Events {
		clock.Advance(ev.At - elapsed)
		elapsed = ev.At

		if ev.Identity != nil {
			prober[ev.Path] = domain.Identity(*ev.Identity)
		} else {
			delete(prober, ev.Path)
		}

		if err := Dispatch(ctx, bridge, raw[i]); err != nil {
			return zerr.With(err, "event", i)
		}
	}

	return engine.Flush(ctx)
}

// LoadReplayScript reads and validates a replay script.
func LoadReplayScript(path string) (*ReplayScript, error) {
	// #nosec G304 -- path is provided by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayParseFailed.Error()), "path", path)
	}

	var script ReplayScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayParseFailed.Error()), "path", path)
	}
	return &script, nil
}

func (s *ReplayScript) rawEvents() ([]domain.RawEvent, error) {
	events := make([]domain.RawEvent, 0, len(s.Events))
	var last time.Duration
	for i, ev := range s.Events {
		if ev.At < last {
			return nil, zerr.With(zerr.With(domain.ErrReplayParseFailed, "event", i), "reason", "offset goes backwards")
		}
		last = ev.At

		if ev.Path == "" {
			return nil, zerr.With(zerr.With(domain.ErrReplayParseFailed, "event", i), "reason", "missing path")
		}

		kind, err := domain.ParseRawKind(ev.Type)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayParseFailed.Error()), "event", i)
		}

		events = append(events, domain.RawEvent{Kind: kind, SrcPath: ev.Path, DestPath: ev.Dest, IsDir: ev.Dir})
	}
	return events, nil
}
