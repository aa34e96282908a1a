package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

const (
	// NumSeats is the number of seats at a table.
	NumSeats = 6
	// DeckSize is the number of cards in play: 4 suits x 12 ranks.
	DeckSize = 48
	// HandSize is the number of cards each seat receives before the reserve card is set aside.
	HandSize = DeckSize / NumSeats
	// TricksPerGame is the maximum number of tricks in one game.
	TricksPerGame = 8
)

// Suit is one of the four card suits.
type Suit string

const (
	SuitNone     Suit = ""
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits lists the suits in deck-building order.
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Valid reports whether s is one of the four playable suits.
func (s Suit) Valid() bool {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// Rank orders cards within a suit; a higher Rank beats a lower one.
// The deuce is not part of the deck.
type Rank int

const (
	RankThree Rank = iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

var rankNames = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Valid reports whether r is inside the 12-rank ladder.
func (r Rank) Valid() bool {
	return r >= RankThree && r <= RankAce
}

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankNames[r]
}

// ParseRank maps a rank label ("3".."10", "J", "Q", "K", "A") to a Rank.
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if strings.EqualFold(name, s) {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// Card is a single playing card, identified by suit and rank.
type Card struct {
	Suit Suit
	Rank Rank
}

// Valid reports whether the card belongs to the 48-card deck.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

// String returns the card identifier used on the wire, e.g. "Q-hearts".
func (c Card) String() string {
	return c.Rank.String() + "-" + string(c.Suit)
}

// ParseCard parses an identifier produced by Card.String.
func ParseCard(id string) (Card, error) {
	rank, suit, ok := strings.Cut(id, "-")
	if !ok {
		return Card{}, fmt.Errorf("malformed card id %q", id)
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	c := Card{Suit: Suit(strings.ToLower(suit)), Rank: r}
	if !c.Valid() {
		return Card{}, fmt.Errorf("unknown suit in card id %q", id)
	}
	return c, nil
}

// NewDeck returns the ordered 48-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := RankThree; r <= RankAce; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

var displaySuitOrder = map[Suit]int{SuitHearts: 0, SuitSpades: 1, SuitDiamonds: 2, SuitClubs: 3}

// SortHand orders a hand for display: grouped by suit, strongest first.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		si, sj := displaySuitOrder[cards[i].Suit], displaySuitOrder[cards[j].Suit]
		if si != sj {
			return si < sj
		}
		return cards[i].Rank > cards[j].Rank
	})
}
