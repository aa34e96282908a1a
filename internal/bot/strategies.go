package bot

import (
	"fmt"
	"math/rand"

	"supersuit/internal/app"
	"supersuit/internal/domain"
)

// EasyBot plays a random legal card and reveals whenever it can.
type EasyBot struct {
	rng *rand.Rand
}

func (b *EasyBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	if game.CanReveal(seat) == nil {
		return Move{Reveal: true}, nil
	}
	legal := game.LegalPlays(seat)
	if len(legal) == 0 {
		return Move{}, fmt.Errorf("seat %d has no legal play", seat)
	}
	return Move{Card: legal[b.rng.Intn(len(legal))]}, nil
}

func (b *EasyBot) OnEvent(event app.Event) {}
