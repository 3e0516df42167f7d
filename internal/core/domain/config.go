package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Backend names a raw event source implementation.
type Backend string

const (
	// BackendAuto picks inotify on Linux and fsnotify elsewhere.
	BackendAuto Backend = "auto"
	// BackendFSNotify uses the portable fsnotify library. Renames arrive as delete and create.
	BackendFSNotify Backend = "fsnotify"
	// BackendInotify uses Linux inotify directly and reports native moves.
	BackendInotify Backend = "inotify"
)

// Priority decides which list wins when a path matches both include and ignore patterns.
type Priority string

const (
	// PriorityIgnore drops paths that match an ignore pattern even if included.
	PriorityIgnore Priority = "ignore"
	// PriorityInclude keeps paths that match an include pattern even if ignored.
	PriorityInclude Priority = "include"
)

// Format selects how semantic events are printed.
type Format string

const (
	// FormatAuto prints pretty output on a terminal and JSON lines otherwise.
	FormatAuto Format = "auto"
	// FormatPretty prints colored, human readable lines.
	FormatPretty Format = "pretty"
	// FormatJSON prints one JSON object per line.
	FormatJSON Format = "json"
)

// Config is the resolved configuration for a watch session.
type Config struct {
	Root     string
	Debounce time.Duration
	Sweep    time.Duration
	TieBreak TieBreak
	Backend  Backend
	Include  []string
	Ignore   []string
	Priority Priority
	// Journal is the journal file path. Empty disables the journal.
	Journal string
	Format  Format
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:     root,
		Debounce: DefaultDebounceWindow,
		Sweep:    DefaultSweepInterval,
		TieBreak: TieBreakNearest,
		Backend:  BackendAuto,
		Ignore:   append([]string(nil), DefaultIgnorePatterns...),
		Priority: PriorityIgnore,
		Format:   FormatAuto,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Root == "" {
		return zerr.With(ErrInvalidConfig, "root", c.Root)
	}
	if c.Debounce <= 0 {
		return zerr.With(ErrInvalidConfig, "debounce", c.Debounce.String())
	}
	if c.Sweep <= 0 {
		return zerr.With(ErrInvalidConfig, "tick", c.Sweep.String())
	}
	if _, err := ParseTieBreak(string(c.TieBreak)); err != nil {
		return err
	}
	switch c.Backend {
	case BackendAuto, BackendFSNotify, BackendInotify:
	default:
		return zerr.With(ErrInvalidConfig, "backend", string(c.Backend))
	}
	switch c.Priority {
	case PriorityIgnore, PriorityInclude:
	default:
		return zerr.With(ErrInvalidConfig, "priority", string(c.Priority))
	}
	switch c.Format {
	case FormatAuto, FormatPretty, FormatJSON:
	default:
		return zerr.With(ErrInvalidConfig, "format", string(c.Format))
	}
	return nil
}
