package bot

import (
	"fmt"

	"supersuit/internal/app"
	"supersuit/internal/domain"
)

// Agent represents an autonomous bot player sitting at one seat.
type Agent struct {
	ID       string
	Name     string
	Seat     int
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current game state.
func (a *Agent) Play(game *domain.Game) (Move, error) {
	if game == nil || game.Phase != domain.PhaseInProgress {
		return Move{}, fmt.Errorf("bot %s: no game in progress", a.ID)
	}
	if game.Trick.CurrentTurn != a.Seat {
		return Move{}, fmt.Errorf("bot %s: seat %d is not on turn", a.ID, a.Seat)
	}
	return a.Strategy.CalculateMove(game, a.Seat)
}

// OnGameEvent notifies the agent of a table event.
func (a *Agent) OnGameEvent(event app.Event) {
	a.Strategy.OnEvent(event)
}
