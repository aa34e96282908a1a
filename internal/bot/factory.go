package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelEasy:
		return &EasyBot{rng: rng}, nil
	case BotLevelGood:
		return &GoodBot{}, nil
	case BotLevelSmart:
		return NewSmartBot(DefaultTuning), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent creates an agent for identity at seat using the identity's difficulty.
func NewAgent(identity BotIdentity, seat int, rng *rand.Rand) (*Agent, error) {
	level, err := ParseLevel(identity.Difficulty)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	return &Agent{ID: identity.UserID, Name: name, Seat: seat, Strategy: brain}, nil
}
