package app

import "supersuit/internal/domain"

// Intent is a player request submitted to the authoritative table.
// The set is closed: PlayCard and RevealTrump.
type Intent interface {
	isIntent()
}

// PlayCard asks to play Card from the submitting seat's hand.
type PlayCard struct {
	Card domain.Card
}

// RevealTrump asks to reveal the reserve card instead of discarding off-suit.
type RevealTrump struct{}

func (PlayCard) isIntent()    {}
func (RevealTrump) isIntent() {}
