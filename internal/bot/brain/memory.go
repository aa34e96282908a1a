package brain

import (
	"supersuit/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // Held by someone else or the reserve
	StatusMine                      // In the bot's hand
	StatusPlayed                    // Already played into a trick
)

// GameMemory stores the bot's private view of one game.
type GameMemory struct {
	// DeckStatus tracks all 48 cards. Index = suit*12 + rank.
	DeckStatus [domain.DeckSize]CardStatus
	// Opponents tracks profiles by seat, partners included.
	Opponents map[int]*OpponentProfile
	Trump     domain.Suit
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{
		Opponents: make(map[int]*OpponentProfile),
	}
}

// Reset clears the memory for a new game.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	m.Opponents = make(map[int]*OpponentProfile)
	m.Trump = domain.SuitNone
}

// UpdateHand marks the current hand as Mine; cards that left the hand without being
// recorded as played revert to Unknown.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	for i, status := range m.DeckStatus {
		if status == StatusMine {
			m.DeckStatus[i] = StatusUnknown
		}
	}
	for _, c := range hand {
		if idx := cardToIndex(c); idx >= 0 {
			m.DeckStatus[idx] = StatusMine
		}
	}
}

// RecordPlay logs that seat played card into a trick led with ledSuit.
func (m *GameMemory) RecordPlay(seat int, card domain.Card, ledSuit domain.Suit) {
	if idx := cardToIndex(card); idx >= 0 {
		m.DeckStatus[idx] = StatusPlayed
	}
	p, ok := m.Opponents[seat]
	if !ok {
		p = NewOpponentProfile(seat)
		m.Opponents[seat] = p
	}
	p.RecordPlay(card, ledSuit, m.Trump)
}

// RecordTrump notes the revealed trump suit.
func (m *GameMemory) RecordTrump(suit domain.Suit) {
	m.Trump = suit
}

// IsMaster reports whether no unseen card of the same suit outranks card.
func (m *GameMemory) IsMaster(card domain.Card) bool {
	for r := card.Rank + 1; r <= domain.RankAce; r++ {
		if m.DeckStatus[cardToIndex(domain.Card{Suit: card.Suit, Rank: r})] == StatusUnknown {
			return false
		}
	}
	return true
}

// Outstanding returns how many cards of suit are neither played nor held by the bot.
func (m *GameMemory) Outstanding(suit domain.Suit) int {
	n := 0
	for r := domain.RankThree; r <= domain.RankAce; r++ {
		if m.DeckStatus[cardToIndex(domain.Card{Suit: suit, Rank: r})] == StatusUnknown {
			n++
		}
	}
	return n
}

// OpponentsVoid reports whether any seat on the other team is known to be void in suit.
func (m *GameMemory) OpponentsVoid(seat int, suit domain.Suit) bool {
	for s, p := range m.Opponents {
		if domain.TeamOf(s) != domain.TeamOf(seat) && p.IsVoid(suit) {
			return true
		}
	}
	return false
}

func cardToIndex(c domain.Card) int {
	if !c.Valid() {
		return -1
	}
	for i, s := range domain.Suits {
		if s == c.Suit {
			return i*12 + int(c.Rank)
		}
	}
	return -1
}
