package bot

import (
	"fmt"
	"strings"

	"supersuit/internal/app"
	"supersuit/internal/domain"
)

// Move represents the decision made by the AI: reveal the reserve card, or play Card.
type Move struct {
	Reveal bool
	Card   domain.Card
}

// Intent converts the move into the intent submitted to the table.
func (m Move) Intent() app.Intent {
	if m.Reveal {
		return app.RevealTrump{}
	}
	return app.PlayCard{Card: m.Card}
}

// Brain is the interface that all bot strategies must implement.
// CalculateMove is only called when it is seat's turn.
type Brain interface {
	CalculateMove(game *domain.Game, seat int) (Move, error)
	OnEvent(event app.Event)
}

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelGood
	BotLevelSmart
)

// ParseLevel maps an identity difficulty ("easy", "medium", "hard") to a BotLevel.
func ParseLevel(difficulty string) (BotLevel, error) {
	switch strings.ToLower(difficulty) {
	case "easy":
		return BotLevelEasy, nil
	case "", "medium":
		return BotLevelGood, nil
	case "hard":
		return BotLevelSmart, nil
	}
	return 0, fmt.Errorf("unknown bot difficulty: %q", difficulty)
}
