package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Input errors
	ErrMsgInvalidInput   = "invalid input"
	ErrMsgInvalidMode    = "invalid run mode"
	ErrMsgTicketRequired = "ticket is required"
	ErrMsgScoreNotFinite = "score must be a finite number"

	// Identity errors
	ErrMsgUnauthorized  = "login required"
	ErrMsgScopeRequired = "scope is required"

	// Lookup errors
	ErrMsgNotFound      = "not found"
	ErrMsgRunNotFound   = "run session not found"
	ErrMsgStateNotFound = "no saved state"

	// Run lifecycle errors
	ErrMsgRunExpired = "run session expired"

	// Perk errors
	ErrMsgUnknownPerk = "unknown perkId"
	ErrMsgPerkLocked  = "perk is locked at current level"
	ErrMsgPerkLimit   = "maximum 3 perks can be equipped"

	// Store errors
	ErrMsgStoreUnavailable = "store unavailable"
	ErrMsgStoreTimeout     = "store timeout"
)

// Common domain errors.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	ErrUnauthorized = errors.New(ErrMsgUnauthorized)

	ErrNotFound = errors.New(ErrMsgNotFound)
	// ErrRunNotFound covers both absent and already-consumed tickets.
	ErrRunNotFound   = wrapped(ErrNotFound, ErrMsgRunNotFound)
	ErrStateNotFound = wrapped(ErrNotFound, ErrMsgStateNotFound)

	ErrRunExpired = errors.New(ErrMsgRunExpired)

	ErrUnknownPerk = wrapped(ErrInvalidInput, ErrMsgUnknownPerk)
	ErrPerkLocked  = wrapped(ErrInvalidInput, ErrMsgPerkLocked)
	ErrPerkLimit   = wrapped(ErrInvalidInput, ErrMsgPerkLimit)

	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)
	ErrStoreTimeout     = wrapped(ErrStoreUnavailable, ErrMsgStoreTimeout)
)

// kindError is a sentinel that also matches its parent kind with errors.Is.
type kindError struct {
	parent error
	msg    string
}

func wrapped(parent error, msg string) error {
	return &kindError{parent: parent, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }
