package domain

// Play records one card played into a trick.
type Play struct {
	Seat int
	Card Card
}

// Trick is the state of the trick in progress. Plays are kept in play order.
type Trick struct {
	StartSeat   int
	CurrentTurn int
	Plays       []Play
	LedSuit     Suit
	Complete    bool

	// MandatoryTrumpSeat is the seat that revealed the trump and still owes its play (0 when none).
	MandatoryTrumpSeat int
	// TrumpActivated is set when the trump was revealed during this trick.
	TrumpActivated bool
	// RevealIndex is the position in Plays the revealer's card occupies.
	RevealIndex int
	WinnerSeat  int
}

// NewTrick returns an empty trick led by start.
func NewTrick(start int) Trick {
	return Trick{StartSeat: start, CurrentTurn: start}
}

// PlayedBy returns the card seat played into the trick, if any.
func (t Trick) PlayedBy(seat int) (Card, bool) {
	for _, p := range t.Plays {
		if p.Seat == seat {
			return p.Card, true
		}
	}
	return Card{}, false
}

// TrumpActive reports whether the play at index i counts as trump.
// trump is SuitNone while the reserve card is still hidden.
func (t Trick) TrumpActive(i int, trump Suit, timing TrumpTiming) bool {
	if trump == SuitNone || i < 0 || i >= len(t.Plays) {
		return false
	}
	if t.Plays[i].Card.Suit != trump {
		return false
	}
	if !t.TrumpActivated || trump == t.LedSuit {
		return true
	}
	if timing == TrumpAfterRevealer {
		return i > t.RevealIndex
	}
	return i >= t.RevealIndex
}

// ResolveTrick returns the winning seat of a trick: the highest trump-active card if any,
// else the highest card of the led suit, else the start seat.
func ResolveTrick(t Trick, trump Suit, timing TrumpTiming) int {
	best := -1
	bestTrump := false
	for i, p := range t.Plays {
		isTrump := t.TrumpActive(i, trump, timing)
		switch {
		case isTrump && !bestTrump:
			best, bestTrump = i, true
		case isTrump && p.Card.Rank > t.Plays[best].Card.Rank:
			best = i
		case !isTrump && !bestTrump && p.Card.Suit == t.LedSuit:
			if best < 0 || p.Card.Rank > t.Plays[best].Card.Rank {
				best = i
			}
		}
	}
	if best < 0 {
		return t.StartSeat
	}
	return t.Plays[best].Seat
}
