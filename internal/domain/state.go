package domain

import "math/rand"

// Phase is the lifecycle stage of one game.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// Game is the authoritative state of a single deal, from the deal to the winning trick.
// Ladder points live outside the game because they persist across games.
type Game struct {
	Rules Rules
	Phase Phase

	Distributor int
	// NextDistributor is recorded by Settle and applied when the next game starts.
	NextDistributor int
	FirstToAct      int
	FirstMoverTeam  Team

	Hands   [NumSeats][]Card
	Reserve *Card

	TrumpSuit     Suit
	TrumpRevealed bool
	TrumpRevealer int

	TrickNumber     int
	Trick           Trick
	History         []Trick
	TricksWon       [2]int
	LastTrickWinner int
	Winner          Team
}

// PlayResult describes the consequences of a single accepted play.
type PlayResult struct {
	Play          Play
	TrickComplete bool
	TrickWinner   int
	GameOver      bool
	Winner        Team
}

// NewGame shuffles deck, deals it from distributor and opens trick 1.
func NewGame(rules Rules, distributor int, rng *rand.Rand) (*Game, error) {
	deal, err := DealCards(ShuffleDeck(NewDeck(), rng), distributor, rng)
	if err != nil {
		return nil, err
	}
	g := &Game{
		Rules:          rules,
		Phase:          PhaseInProgress,
		Distributor:    distributor,
		FirstToAct:     deal.FirstToAct,
		FirstMoverTeam: TeamOf(deal.FirstToAct),
		Hands:          deal.Hands,
		Reserve:        &deal.Reserve,
		TrickNumber:    1,
		Trick:          NewTrick(deal.FirstToAct),
	}
	if err := g.CheckIntegrity(); err != nil {
		return nil, err
	}
	return g, nil
}

// Target returns the number of tricks team needs to win the game.
func (g *Game) Target(team Team) int {
	if team == g.FirstMoverTeam {
		return FirstMoverTarget
	}
	return ResponderTarget
}

// TricksOf returns the tricks won so far by team.
func (g *Game) TricksOf(team Team) int {
	if !team.Valid() {
		return 0
	}
	return g.TricksWon[team-1]
}

func (g *Game) checkTurn(seat int) error {
	if g.Phase != PhaseInProgress {
		return ErrGameNotInProgress
	}
	if !ValidSeat(seat) {
		return ErrUnknownSeat
	}
	if g.Trick.Complete {
		return ErrTrickComplete
	}
	if g.Trick.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	return nil
}

// PlayCard applies a play for seat. Illegal plays leave the game untouched.
func (g *Game) PlayCard(seat int, card Card) (PlayResult, error) {
	if err := g.checkTurn(seat); err != nil {
		return PlayResult{}, err
	}
	if err := g.CanPlay(seat, card); err != nil {
		return PlayResult{}, err
	}

	t := &g.Trick
	g.Hands[seat-1], _ = RemoveCard(g.Hands[seat-1], card)
	if len(t.Plays) == 0 {
		t.LedSuit = card.Suit
	}
	t.Plays = append(t.Plays, Play{Seat: seat, Card: card})
	if t.MandatoryTrumpSeat == seat {
		t.MandatoryTrumpSeat = 0
	}

	res := PlayResult{Play: Play{Seat: seat, Card: card}}
	if len(t.Plays) < NumSeats {
		t.CurrentTurn = NextSeat(seat)
		return res, g.CheckIntegrity()
	}

	t.Complete = true
	t.CurrentTurn = 0
	winner := ResolveTrick(*t, g.TrumpSuit, g.Rules.TrumpTiming)
	t.WinnerSeat = winner
	g.LastTrickWinner = winner
	g.TricksWon[TeamOf(winner)-1]++
	res.TrickComplete = true
	res.TrickWinner = winner

	for _, team := range []Team{Team1, Team2} {
		if g.TricksOf(team) >= g.Target(team) {
			g.Phase = PhaseCompleted
			g.Winner = team
			res.GameOver = true
			res.Winner = team
			break
		}
	}
	if !res.GameOver && g.TrickNumber >= TricksPerGame {
		return res, integrityf("%d tricks played without a winner (%d-%d)", TricksPerGame, g.TricksWon[0], g.TricksWon[1])
	}
	return res, g.CheckIntegrity()
}

// RevealTrump reveals the reserve card for seat, fixing the trump suit for the rest of the game.
// The reserve card joins the first-to-act seat's hand and seat must then play trump if it can.
func (g *Game) RevealTrump(seat int) (Card, error) {
	if err := g.CanReveal(seat); err != nil {
		return Card{}, err
	}
	reserve := *g.Reserve
	g.Reserve = nil
	g.TrumpSuit = reserve.Suit
	g.TrumpRevealed = true
	g.TrumpRevealer = seat
	g.Hands[g.FirstToAct-1] = append(g.Hands[g.FirstToAct-1], reserve)

	t := &g.Trick
	t.TrumpActivated = true
	t.RevealIndex = len(t.Plays)
	t.MandatoryTrumpSeat = seat
	return reserve, g.CheckIntegrity()
}

// NextTrick archives the completed trick and opens the next one, led by its winner.
func (g *Game) NextTrick() error {
	if g.Phase != PhaseInProgress {
		return ErrGameNotInProgress
	}
	if !g.Trick.Complete {
		return integrityf("trick %d advanced before completion", g.TrickNumber)
	}
	if g.TrickNumber >= TricksPerGame {
		return integrityf("no trick after trick %d", g.TrickNumber)
	}
	g.History = append(g.History, g.Trick)
	g.TrickNumber++
	g.Trick = NewTrick(g.LastTrickWinner)
	return g.CheckIntegrity()
}

// Settle applies the finished game's result to ladder and records the next distributor.
func (g *Game) Settle(ladder *Ladder) (Settlement, error) {
	if g.Phase != PhaseCompleted || !g.Winner.Valid() {
		return Settlement{}, integrityf("settle before the game has a winner")
	}
	s, err := ladder.Settle(g.Winner)
	if err != nil {
		return Settlement{}, err
	}
	g.NextDistributor = NextDistributor(g.Distributor, g.Winner, s.Rollover)
	return s, nil
}

// CheckIntegrity verifies card conservation and trick accounting.
func (g *Game) CheckIntegrity() error {
	seen := make(map[Card]bool, DeckSize)
	count := func(c Card, where string) error {
		if !c.Valid() {
			return integrityf("invalid card %+v in %s", c, where)
		}
		if seen[c] {
			return integrityf("duplicate card detected: %s in %s", c, where)
		}
		seen[c] = true
		return nil
	}

	for i, hand := range g.Hands {
		for _, c := range hand {
			if err := count(c, "hand"); err != nil {
				return err
			}
		}
		if len(hand) > HandSize {
			return integrityf("seat %d holds %d cards", i+1, len(hand))
		}
	}
	if g.Reserve != nil {
		if g.TrumpRevealed {
			return integrityf("reserve card present after reveal")
		}
		if err := count(*g.Reserve, "reserve"); err != nil {
			return err
		}
	}
	tricks := append(append([]Trick(nil), g.History...), g.Trick)
	completed := 0
	for _, t := range tricks {
		seats := make(map[int]bool, NumSeats)
		for _, p := range t.Plays {
			if seats[p.Seat] {
				return integrityf("seat %d played twice in one trick", p.Seat)
			}
			seats[p.Seat] = true
			if err := count(p.Card, "trick"); err != nil {
				return err
			}
		}
		if t.Complete {
			completed++
		}
	}
	if len(seen) != DeckSize {
		return integrityf("%d cards accounted for, want %d", len(seen), DeckSize)
	}
	if g.TricksWon[0]+g.TricksWon[1] != completed {
		return integrityf("tricks won %d+%d does not match %d completed tricks", g.TricksWon[0], g.TricksWon[1], completed)
	}
	return nil
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	c := *g
	for i := range g.Hands {
		c.Hands[i] = append([]Card(nil), g.Hands[i]...)
	}
	if g.Reserve != nil {
		r := *g.Reserve
		c.Reserve = &r
	}
	c.Trick = g.Trick.clone()
	c.History = make([]Trick, len(g.History))
	for i, t := range g.History {
		c.History[i] = t.clone()
	}
	return &c
}

func (t Trick) clone() Trick {
	t.Plays = append([]Play(nil), t.Plays...)
	return t
}
