package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyPath is returned when an identity is registered for an empty path.
	ErrEmptyPath = zerr.New("path must not be empty")

	// ErrConfigNotFound is returned when no configuration file is found walking up from the working directory.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration file")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse configuration file")

	// ErrInvalidConfig is returned when a configuration value is out of range or unknown.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrWatchFailed is returned when the raw event source cannot watch a directory.
	ErrWatchFailed = zerr.New("failed to watch directory")

	// ErrBackendUnavailable is returned when the requested watch backend is not supported on this platform.
	ErrBackendUnavailable = zerr.New("watch backend not available on this platform")

	// ErrUnknownEventType is returned when a raw event type cannot be parsed.
	ErrUnknownEventType = zerr.New("unknown event type")

	// ErrReplayParseFailed is returned when a replay script cannot be parsed.
	ErrReplayParseFailed = zerr.New("failed to parse replay script")

	// ErrJournalWriteFailed is returned when an event cannot be appended to the journal.
	ErrJournalWriteFailed = zerr.New("failed to write event journal")

	// ErrSubscriberFailed is returned when a subscriber rejects or panics on a semantic event.
	ErrSubscriberFailed = zerr.New("subscriber failed to handle event")
)
