package domain

import (
	"errors"
	"fmt"
)

// Root errors. Every rejection wraps ErrIllegalIntent; every broken invariant wraps ErrIntegrityViolation.
var (
	ErrIllegalIntent      = errors.New("illegal intent")
	ErrIntegrityViolation = errors.New("integrity violation")
)

var (
	ErrGameNotInProgress    = illegal("game not in progress")
	ErrUnknownSeat          = illegal("unknown seat")
	ErrNotYourTurn          = illegal("not your turn")
	ErrTrickComplete        = illegal("trick already complete")
	ErrCardNotInHand        = illegal("card not in hand")
	ErrMustFollowSuit       = illegal("must follow the led suit")
	ErrMustPlayTrump        = illegal("must play a trump card after revealing")
	ErrRevealBeforeLead     = illegal("cannot reveal before a suit is led")
	ErrRevealCanFollow      = illegal("cannot reveal while holding the led suit")
	ErrTrumpAlreadyRevealed = illegal("trump already revealed")
	ErrNoReserveCard        = illegal("no reserve card")
)

func illegal(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalIntent, msg)
}

// IntegrityError reports engine state that can no longer be trusted.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Reason
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityViolation
}

func integrityf(format string, args ...any) error {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalIntent reports whether err is a recoverable rejection of a player intent.
func IsIllegalIntent(err error) bool {
	return errors.Is(err, ErrIllegalIntent)
}

// IsIntegrityViolation reports whether err means the game instance is corrupted.
func IsIntegrityViolation(err error) bool {
	return errors.Is(err, ErrIntegrityViolation)
}
