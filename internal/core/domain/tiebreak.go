package domain

import "go.trai.ch/zerr"

// TieBreak selects which pending event is paired when several candidates
// share a basename inside the debounce window.
type TieBreak string

const (
	// TieBreakNearest pairs the most recently observed candidate. It is the default.
	TieBreakNearest TieBreak = "nearest"
	// TieBreakFirst pairs the earliest recorded candidate, which is how
	// first-encountered pairing behaved before the policy was configurable.
	TieBreakFirst TieBreak = "first"
	// TieBreakReject pairs nothing when more than one candidate matches.
	TieBreakReject TieBreak = "reject"
)

// ParseTieBreak validates a tie-break policy name. The empty string selects TieBreakNearest.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "", TieBreakNearest:
		return TieBreakNearest, nil
	case TieBreakFirst, TieBreakReject:
		return TieBreak(s), nil
	default:
		return "", zerr.With(ErrInvalidConfig, "tie_break", s)
	}
}
