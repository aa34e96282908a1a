package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"supersuit/internal/app"
	"supersuit/internal/bot"
	"supersuit/internal/domain"
)

// maxStepsPerGame bounds a game: eight tricks of six plays, one reveal and the continuations.
const maxStepsPerGame = 200

type sessionOptions struct {
	Games  int
	Seed   int64
	Levels [domain.NumSeats]string
	Rules  domain.Rules
}

type sessionResult struct {
	Games   int
	Wins    [2]int
	BigWins int
	Ladder  [2]int
}

// runSession seats one bot per seat and plays opts.Games consecutive games on one table.
func runSession(opts sessionOptions, logger runtime.Logger) (sessionResult, error) {
	var res sessionResult
	rng := rand.New(rand.NewSource(opts.Seed))
	table := app.NewTable(app.TableOptions{Rules: opts.Rules, Rng: rng})
	defer table.Close()

	agents := make([]*bot.Agent, domain.NumSeats)
	for i, level := range opts.Levels {
		identity := bot.GetBotIdentity(i)
		identity.Difficulty = level
		agent, err := bot.NewAgent(identity, i+1, rng)
		if err != nil {
			return res, fmt.Errorf("seat %d: %w", i+1, err)
		}
		agents[i] = agent
	}
	notify := func(events []app.Event) {
		for _, ev := range events {
			for _, a := range agents {
				if !ev.Private() || ev.Recipients[0] == a.Seat {
					a.OnGameEvent(ev)
				}
			}
			if p, ok := ev.Payload.(app.BigWinPayload); ok {
				res.BigWins++
				logger.Info("Big win for team(s) %v", p.Teams)
			}
		}
	}

	now := time.Unix(0, 0)
	for game := 1; game <= opts.Games; game++ {
		events, err := table.StartGame(now)
		if err != nil {
			return res, fmt.Errorf("game %d: %w", game, err)
		}
		notify(events)

		for steps := 0; table.InProgress(); steps++ {
			if steps > maxStepsPerGame {
				return res, fmt.Errorf("game %d did not finish", game)
			}
			if due, resolving := table.Resolving(); resolving {
				now = due
				events, err = table.Advance(now)
			} else {
				g := table.Game()
				agent := agents[g.Trick.CurrentTurn-1]
				move, moveErr := agent.Play(g)
				if moveErr != nil {
					return res, fmt.Errorf("game %d: %w", game, moveErr)
				}
				events, err = table.ApplyIntent(agent.Seat, move.Intent(), now)
			}
			if err != nil {
				return res, fmt.Errorf("game %d: %w", game, err)
			}
			notify(events)
		}

		g := table.Game()
		res.Games++
		res.Wins[g.Winner-1]++
		logger.WithField("game", game).Debug("Distributor %d, winner team %d, tricks %v, next distributor %d",
			g.Distributor, g.Winner, g.TricksWon, g.NextDistributor)
	}
	res.Ladder = table.Ladder().Points
	return res, nil
}
