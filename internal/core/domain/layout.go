package domain

import "time"

const (
	// ConfigFileName is the name of the configuration file discovered from the working directory upward.
	ConfigFileName = "rewatch.yaml"

	// StateDirName is the name of the directory holding rewatch state inside the watched root.
	StateDirName = ".rewatch"

	// JournalFileName is the default journal file inside StateDirName.
	JournalFileName = "events.jsonl"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

const (
	// DefaultDebounceWindow is the maximum gap between a delete and a create for them to be paired.
	DefaultDebounceWindow = 500 * time.Millisecond

	// DefaultSweepInterval is how often a quiet watch loop expires pending events.
	DefaultSweepInterval = 250 * time.Millisecond
)

// DefaultIgnorePatterns are never delivered to the engine unless included explicitly.
var DefaultIgnorePatterns = []string{".git", ".jj", "node_modules", StateDirName}
