package radiosity

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown radiosity mode")

// Mode selects how light propagates from neighbor groups into patches.
type Mode int

const (
	// ModeAggregate gives every member of a group the same incoming light, weighted by
	// the group-level NeighborsInfluence.
	ModeAggregate Mode = iota

	// ModeSeparate weights each neighbor group's light by the receiving patch's own
	// NeighborContribution.
	ModeSeparate
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAggregate:
		return "aggregate"
	case ModeSeparate:
		return "separate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration name into a Mode. The empty string selects
// ModeAggregate.
//
// Parameters:
//   - s: "aggregate", "separate" or ""
//
// Returns:
//   - Mode: the parsed mode
//   - error: a wrapped ErrUnknownMode for any other value
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "aggregate":
		return ModeAggregate, nil
	case "separate":
		return ModeSeparate, nil
	default:
		return ModeAggregate, fmt.Errorf("%q: %w", s, ErrUnknownMode)
	}
}
