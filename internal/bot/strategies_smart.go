package bot

import (
	"fmt"

	"supersuit/internal/app"
	"supersuit/internal/bot/brain"
	"supersuit/internal/bot/internal"
	"supersuit/internal/domain"
)

// SmartBot extends GoodBot with card memory: it leads master cards, avoids leading into
// known opponent voids once trump is out and leads trump when it is long in it.
type SmartBot struct {
	Memory *brain.GameMemory
	Tuning SmartTuning
}

func NewSmartBot(tuning SmartTuning) *SmartBot {
	return &SmartBot{Memory: brain.NewMemory(), Tuning: tuning}
}

func (b *SmartBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	b.Memory.UpdateHand(game.Hands[seat-1])

	if game.CanReveal(seat) == nil && shouldReveal(game, seat, b.Tuning.RevealWhenPartnerWinning) {
		return Move{Reveal: true}, nil
	}
	legal := game.LegalPlays(seat)
	if len(legal) == 0 {
		return Move{}, fmt.Errorf("seat %d has no legal play", seat)
	}
	if len(game.Trick.Plays) > 0 {
		return Move{Card: respond(game, seat, legal)}, nil
	}
	return Move{Card: b.lead(game, seat, legal)}, nil
}

func (b *SmartBot) lead(game *domain.Game, seat int, legal []domain.Card) domain.Card {
	trump := game.TrumpSuit
	candidates := legal
	if b.Tuning.AvoidVoidLeads && game.TrumpRevealed {
		var safe []domain.Card
		for _, c := range legal {
			if c.Suit == trump || !b.Memory.OpponentsVoid(seat, c.Suit) {
				safe = append(safe, c)
			}
		}
		if len(safe) > 0 {
			candidates = safe
		}
	}

	if b.Tuning.LeadMasters {
		for _, c := range candidates {
			if c.Suit != trump && b.Memory.IsMaster(c) {
				return c
			}
		}
	}

	if game.TrumpRevealed && b.Tuning.TrumpLeadMinimum > 0 {
		var trumps []domain.Card
		for _, c := range candidates {
			if c.Suit == trump {
				trumps = append(trumps, c)
			}
		}
		if len(trumps) >= b.Tuning.TrumpLeadMinimum {
			card, _ := internal.Highest(trumps, trump)
			return card
		}
	}

	card, _ := internal.Lowest(longestSuit(candidates, trump), trump)
	return card
}

// OnEvent keeps the memory in step with the table.
func (b *SmartBot) OnEvent(event app.Event) {
	switch p := event.Payload.(type) {
	case app.GameStartedPayload:
		b.Memory.Reset()
	case app.CardPlayedPayload:
		b.Memory.RecordPlay(p.Seat, p.Card, p.LedSuit)
	case app.TrumpRevealedPayload:
		b.Memory.RecordTrump(p.TrumpSuit)
	}
}
