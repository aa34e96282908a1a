package internal

import (
	"sort"

	"supersuit/internal/domain"
)

// CurrentWinner returns the seat winning the trick so far, or 0 before the lead.
func CurrentWinner(game *domain.Game) int {
	if len(game.Trick.Plays) == 0 {
		return 0
	}
	return domain.ResolveTrick(game.Trick, game.TrumpSuit, game.Rules.TrumpTiming)
}

// WouldWin reports whether seat playing card now would be winning the trick afterwards.
// Later plays can still take it.
func WouldWin(game *domain.Game, seat int, card domain.Card) bool {
	trick := game.Trick
	trick.Plays = append(append([]domain.Play(nil), game.Trick.Plays...), domain.Play{Seat: seat, Card: card})
	if len(game.Trick.Plays) == 0 {
		trick.LedSuit = card.Suit
	}
	return domain.ResolveTrick(trick, game.TrumpSuit, game.Rules.TrumpTiming) == seat
}

// PartnerWinning reports whether the trick is currently held by seat's team.
func PartnerWinning(game *domain.Game, seat int) bool {
	w := CurrentWinner(game)
	return w != 0 && w != seat && domain.TeamOf(w) == domain.TeamOf(seat)
}

// Lowest returns the weakest card, preferring non-trump cards. ok is false for an empty slice.
func Lowest(cards []domain.Card, trump domain.Suit) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	sorted := sortedByValue(cards, trump)
	return sorted[0], true
}

// Highest returns the strongest card, treating trump above every other suit.
func Highest(cards []domain.Card, trump domain.Suit) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	sorted := sortedByValue(cards, trump)
	return sorted[len(sorted)-1], true
}

// CheapestWinner returns the weakest card that would win the trick for seat right now.
func CheapestWinner(game *domain.Game, seat int, cards []domain.Card) (domain.Card, bool) {
	for _, c := range sortedByValue(cards, game.TrumpSuit) {
		if WouldWin(game, seat, c) {
			return c, true
		}
	}
	return domain.Card{}, false
}

func sortedByValue(cards []domain.Card, trump domain.Suit) []domain.Card {
	out := append([]domain.Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := trump != domain.SuitNone && out[i].Suit == trump, trump != domain.SuitNone && out[j].Suit == trump
		if ti != tj {
			return !ti
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}
