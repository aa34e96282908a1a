package bot

import (
	"fmt"

	"supersuit/internal/app"
	"supersuit/internal/bot/internal"
	"supersuit/internal/domain"
)

// GoodBot plays for the team without memory: it leaves tricks its partner holds, wins
// cheaply when it can and otherwise discards its weakest card.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	if game.CanReveal(seat) == nil && shouldReveal(game, seat, false) {
		return Move{Reveal: true}, nil
	}
	legal := game.LegalPlays(seat)
	if len(legal) == 0 {
		return Move{}, fmt.Errorf("seat %d has no legal play", seat)
	}

	// Lead: strongest card of the suit held longest.
	if len(game.Trick.Plays) == 0 {
		card, _ := internal.Highest(longestSuit(legal, game.TrumpSuit), game.TrumpSuit)
		return Move{Card: card}, nil
	}
	return Move{Card: respond(game, seat, legal)}, nil
}

func (b *GoodBot) OnEvent(event app.Event) {}

// respond picks a follow card: dump low when the partner holds the trick, win cheaply otherwise.
func respond(game *domain.Game, seat int, legal []domain.Card) domain.Card {
	if !internal.PartnerWinning(game, seat) {
		if card, ok := internal.CheapestWinner(game, seat, legal); ok {
			return card
		}
	}
	card, _ := internal.Lowest(legal, game.TrumpSuit)
	return card
}

// shouldReveal decides whether a seat that may reveal should do so. A seat with an empty
// hand always reveals.
func shouldReveal(game *domain.Game, seat int, whenPartnerWinning bool) bool {
	if len(game.Hands[seat-1]) == 0 {
		return true
	}
	return whenPartnerWinning || !internal.PartnerWinning(game, seat)
}

// longestSuit returns the cards of the most represented non-trump suit, or all cards when
// only trump is left.
func longestSuit(cards []domain.Card, trump domain.Suit) []domain.Card {
	bySuit := make(map[domain.Suit][]domain.Card)
	for _, c := range cards {
		if trump != domain.SuitNone && c.Suit == trump {
			continue
		}
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	var best []domain.Card
	for _, s := range domain.Suits {
		if len(bySuit[s]) > len(best) {
			best = bySuit[s]
		}
	}
	if len(best) == 0 {
		return cards
	}
	return best
}
