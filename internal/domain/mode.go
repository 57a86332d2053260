package domain

import (
	"fmt"
	"strings"
)

// Mode selects the reward multiplier and which challenge a run counts toward.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
	ModeWeekly Mode = "weekly"
)

// Mode multipliers applied to the adjusted score and XP.
const (
	ModeMultiplierNormal = 1.0
	ModeMultiplierDaily  = 1.15
	ModeMultiplierWeekly = 1.3
)

// ParseMode accepts the wire names of the run modes. An empty string means normal.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(raw)) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeDaily:
		return ModeDaily, nil
	case ModeWeekly:
		return ModeWeekly, nil
	}
	return "", fmt.Errorf("%w: %s %q", ErrInvalidInput, ErrMsgInvalidMode, raw)
}

// Multiplier returns the score and XP multiplier for the mode.
func (m Mode) Multiplier() float64 {
	switch m {
	case ModeDaily:
		return ModeMultiplierDaily
	case ModeWeekly:
		return ModeMultiplierWeekly
	default:
		return ModeMultiplierNormal
	}
}

// HasChallenge reports whether runs in this mode count toward a cycle challenge.
func (m Mode) HasChallenge() bool {
	return m == ModeDaily || m == ModeWeekly
}
