package correlator

import (
	"slices"
	"strings"
	"time"

	"go.trai.ch/rewatch/internal/core/domain"
)

// pending is a delete or create that is not yet resolved.
type pending struct {
	path       string
	observedAt time.Time
	// event is the standalone event emitted if the pending entry expires.
	event domain.Event
}

// pendingSet holds pending entries in the order they were recorded.
type pendingSet struct {
	items []*pending
}

// put records p, replacing an entry for the same path.
func (s *pendingSet) put(p *pending) {
	s.remove(p.path)
	s.items = append(s.items, p)
}

func (s *pendingSet) remove(path string) {
	s.items = slices.DeleteFunc(s.items, func(p *pending) bool {
		return p.path == path
	})
}

// covers reports whether path or one of its parents has an entry.
func (s *pendingSet) covers(path string) bool {
	for _, p := range s.items {
		if p.path == path || strings.HasPrefix(path, domain.FolderPrefix(p.path)) {
			return true
		}
	}
	return false
}

func (s *pendingSet) len() int {
	return len(s.items)
}

// candidates returns the entries whose basename is base and whose age is within window.
func (s *pendingSet) candidates(base string, now time.Time, window time.Duration) []*pending {
	var out []*pending
	for _, p := range s.items {
		if now.Sub(p.observedAt) > window {
			continue
		}
		if domain.BaseName(p.path) == base {
			out = append(out, p)
		}
	}
	return out
}

// expire removes and returns every entry older than window, or all entries when force is set.
func (s *pendingSet) expire(now time.Time, window time.Duration, force bool) []*pending {
	var expired []*pending
	kept := s.items[:0]
	for _, p := range s.items {
		if force || now.Sub(p.observedAt) > window {
			expired = append(expired, p)
			continue
		}
		kept = append(kept, p)
	}
	clear(s.items[len(kept):])
	s.items = kept
	return expired
}

// pick applies the tie-break policy to the matching candidates.
func pick(candidates []*pending, policy domain.TieBreak) *pending {
	switch {
	case len(candidates) == 0:
		return nil
	case len(candidates) == 1:
		return candidates[0]
	}

	switch policy {
	case domain.TieBreakReject:
		return nil
	case domain.TieBreakFirst:
		return candidates[0]
	default:
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.observedAt.After(best.observedAt) {
				best = c
			}
		}
		return best
	}
}
