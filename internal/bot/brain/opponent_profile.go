package brain

import "supersuit/internal/domain"

// OpponentProfile tracks what the table has revealed about one seat.
type OpponentProfile struct {
	Seat int
	// Voids holds suits the seat has shown it cannot follow.
	Voids map[domain.Suit]bool
	// TrumpsPlayed counts trump-suit cards the seat has played.
	TrumpsPlayed int
}

// NewOpponentProfile initializes a profile for a specific seat.
func NewOpponentProfile(seat int) *OpponentProfile {
	return &OpponentProfile{
		Seat:  seat,
		Voids: make(map[domain.Suit]bool),
	}
}

// RecordPlay logs a card played by this seat into a trick led with ledSuit.
func (p *OpponentProfile) RecordPlay(card domain.Card, ledSuit, trump domain.Suit) {
	if ledSuit != domain.SuitNone && card.Suit != ledSuit {
		p.Voids[ledSuit] = true
	}
	if trump != domain.SuitNone && card.Suit == trump {
		p.TrumpsPlayed++
	}
}

// IsVoid reports whether the seat is known to hold no cards of suit.
func (p *OpponentProfile) IsVoid(suit domain.Suit) bool {
	return p.Voids[suit]
}
