package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// RawKind classifies a raw filesystem notification.
type RawKind uint8

const (
	// RawCreated indicates a file or directory appeared at SrcPath.
	RawCreated RawKind = iota
	// RawDeleted indicates a file or directory disappeared from SrcPath.
	RawDeleted
	// RawMoved is a native move or rename reported with both SrcPath and DestPath.
	RawMoved
	// RawModified indicates content or metadata changed in place.
	RawModified
)

// String returns the lower-case name of the kind.
func (k RawKind) String() string {
	switch k {
	case RawCreated:
		return "created"
	case RawDeleted:
		return "deleted"
	case RawMoved:
		return "moved"
	case RawModified:
		return "modified"
	default:
		return "unknown"
	}
}

// ParseRawKind parses a raw event type name. "renamed" is a synonym for "moved".
func ParseRawKind(s string) (RawKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created", "create":
		return RawCreated, nil
	case "deleted", "delete", "removed":
		return RawDeleted, nil
	case "moved", "move", "renamed", "rename":
		return RawMoved, nil
	case "modified", "modify", "write":
		return RawModified, nil
	default:
		return 0, zerr.With(ErrUnknownEventType, "type", s)
	}
}

// RawEvent is a single notification from a raw event source.
type RawEvent struct {
	Kind RawKind
	// SrcPath is always set. For moves it is the old location.
	SrcPath string
	// DestPath is only set for RawMoved.
	DestPath string
	IsDir    bool
}

// EventType is the type of a semantic event.
type EventType string

const (
	// EventCreated is emitted for a create that was not paired into a move.
	EventCreated EventType = "created"
	// EventDeleted is emitted for a delete that was not paired into a move.
	EventDeleted EventType = "deleted"
	// EventMoved is emitted for native moves, correlated delete/create pairs
	// and every descendant of a moved directory.
	EventMoved EventType = "moved"
)

// Event is a semantic event produced by the correlation engine.
type Event struct {
	Type     EventType        `json:"type"`
	Path     string           `json:"path"`
	Identity OptionalIdentity `json:"identity"`
	// OldParent and NewParent are only set for EventMoved. They name the
	// moved root before and after the move, not the immediate parent directory.
	OldParent string `json:"old_parent,omitempty"`
	NewParent string `json:"new_parent,omitempty"`
}
