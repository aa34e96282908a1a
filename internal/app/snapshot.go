package app

import "supersuit/internal/domain"

// TrickView is the serializable state of the trick on the table.
type TrickView struct {
	Number             int
	StartSeat          int
	CurrentTurn        int
	Plays              []domain.Play
	LedSuit            domain.Suit
	Complete           bool
	WinnerSeat         int
	MandatoryTrumpSeat int
}

// Snapshot is the full state of a table. Hands are included; transports strip them with Public
// and deliver each seat its own hand privately.
type Snapshot struct {
	GameID          string
	GameNumber      int
	Phase           domain.Phase
	Distributor     int
	NextDistributor int
	FirstToAct      int
	FirstMoverTeam  domain.Team
	Targets         [2]int

	Hands          [domain.NumSeats][]domain.Card
	HandSizes      [domain.NumSeats]int
	ReservePresent bool

	TrumpSuit     domain.Suit
	TrumpRevealed bool
	TrumpRevealer int

	Trick           TrickView
	TricksWon       [2]int
	LastTrickWinner int
	Winner          domain.Team
	Ladder          [2]int

	Resolving bool
	Halted    bool
}

// Snapshot returns the current table state.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Phase:      domain.PhaseNotStarted,
		GameID:     t.gameID,
		GameNumber: t.gameNumber,
		Ladder:     t.ladder.Points,
		Resolving:  t.pending != nil,
		Halted:     t.halted != nil,
	}
	g := t.game
	if g == nil {
		s.Distributor = t.distributor
		return s
	}

	s.Phase = g.Phase
	s.Distributor = g.Distributor
	s.NextDistributor = g.NextDistributor
	s.FirstToAct = g.FirstToAct
	s.FirstMoverTeam = g.FirstMoverTeam
	s.Targets = [2]int{g.Target(domain.Team1), g.Target(domain.Team2)}
	for i, hand := range g.Hands {
		s.Hands[i] = append([]domain.Card(nil), hand...)
		domain.SortHand(s.Hands[i])
		s.HandSizes[i] = len(hand)
	}
	s.ReservePresent = g.Reserve != nil
	s.TrumpSuit = g.TrumpSuit
	s.TrumpRevealed = g.TrumpRevealed
	s.TrumpRevealer = g.TrumpRevealer
	s.Trick = TrickView{
		Number:             g.TrickNumber,
		StartSeat:          g.Trick.StartSeat,
		CurrentTurn:        g.Trick.CurrentTurn,
		Plays:              append([]domain.Play(nil), g.Trick.Plays...),
		LedSuit:            g.Trick.LedSuit,
		Complete:           g.Trick.Complete,
		WinnerSeat:         g.Trick.WinnerSeat,
		MandatoryTrumpSeat: g.Trick.MandatoryTrumpSeat,
	}
	s.TricksWon = g.TricksWon
	s.LastTrickWinner = g.LastTrickWinner
	s.Winner = g.Winner
	return s
}

// Public returns a copy of s without any hand contents.
func (s Snapshot) Public() Snapshot {
	s.Hands = [domain.NumSeats][]domain.Card{}
	return s
}

// CardCount returns the number of cards accounted for in the current trick, hands and reserve.
func (s Snapshot) CardCount() int {
	n := len(s.Trick.Plays)
	for _, size := range s.HandSizes {
		n += size
	}
	if s.ReservePresent {
		n++
	}
	return n
}
