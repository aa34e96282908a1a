package domain

import "fmt"

// TrumpTiming selects which trump-suit cards count as trump in the trick where the reserve
// card is revealed.
type TrumpTiming string

const (
	// TrumpFromRevealer counts the revealer's own card and every later one.
	TrumpFromRevealer TrumpTiming = "from_revealer"
	// TrumpAfterRevealer counts only cards played after the revealer's card.
	TrumpAfterRevealer TrumpTiming = "after_revealer"
)

// ParseTrumpTiming maps a configuration value to a TrumpTiming. Empty selects the default.
func ParseTrumpTiming(s string) (TrumpTiming, error) {
	switch TrumpTiming(s) {
	case "", TrumpFromRevealer:
		return TrumpFromRevealer, nil
	case TrumpAfterRevealer:
		return TrumpAfterRevealer, nil
	}
	return "", fmt.Errorf("unknown trump timing %q", s)
}

// Rules holds the variant switches of a table.
type Rules struct {
	TrumpTiming TrumpTiming
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{TrumpTiming: TrumpFromRevealer}
}

const (
	// FirstMoverTarget is the number of tricks the first-to-act seat's team needs.
	FirstMoverTarget = 5
	// ResponderTarget is the number of tricks the other team needs.
	ResponderTarget = 4
)

// CanPlay validates card for seat against the follow-suit and mandatory-trump rules.
// Turn order is checked by the caller.
func (g *Game) CanPlay(seat int, card Card) error {
	hand := g.Hands[seat-1]
	if !HasCard(hand, card) {
		return ErrCardNotInHand
	}
	t := &g.Trick
	if t.MandatoryTrumpSeat == seat {
		if HasSuit(hand, g.TrumpSuit) && card.Suit != g.TrumpSuit {
			return ErrMustPlayTrump
		}
		return nil
	}
	if t.LedSuit == SuitNone {
		return nil
	}
	if HasSuit(hand, t.LedSuit) && card.Suit != t.LedSuit {
		return ErrMustFollowSuit
	}
	return nil
}

// LegalPlays returns the cards seat may play right now. It is empty when it is not seat's turn.
func (g *Game) LegalPlays(seat int) []Card {
	if g.Phase != PhaseInProgress || !ValidSeat(seat) || g.Trick.Complete || g.Trick.CurrentTurn != seat {
		return nil
	}
	var out []Card
	for _, c := range g.Hands[seat-1] {
		if g.CanPlay(seat, c) == nil {
			out = append(out, c)
		}
	}
	return out
}

// CanReveal reports whether seat may reveal the reserve card on its current turn.
// A seat can reveal when it cannot follow the led suit. The first-to-act seat may also
// reveal when its hand is empty, since it would otherwise have nothing to play.
func (g *Game) CanReveal(seat int) error {
	if g.Phase != PhaseInProgress {
		return ErrGameNotInProgress
	}
	if !ValidSeat(seat) {
		return ErrUnknownSeat
	}
	t := &g.Trick
	if t.Complete {
		return ErrTrickComplete
	}
	if t.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	if g.TrumpRevealed {
		return ErrTrumpAlreadyRevealed
	}
	if g.Reserve == nil {
		return ErrNoReserveCard
	}
	hand := g.Hands[seat-1]
	if len(hand) == 0 {
		return nil
	}
	if t.LedSuit == SuitNone {
		return ErrRevealBeforeLead
	}
	if HasSuit(hand, t.LedSuit) {
		return ErrRevealCanFollow
	}
	return nil
}
