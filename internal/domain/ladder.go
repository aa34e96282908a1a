package domain

const (
	// LadderSize is the rollover threshold of the team ladder.
	LadderSize = 32
	// FlatGain is awarded when the losing team has no points to steal.
	FlatGain = 5
	// MaxSteal caps the points taken from the losing team.
	MaxSteal = 10
)

// Ladder holds the cross-game points of both teams, indexed by Team-1.
type Ladder struct {
	Points [2]int
}

// Of returns the points of team t.
func (l Ladder) Of(t Team) int {
	if !t.Valid() {
		return 0
	}
	return l.Points[t-1]
}

// Settlement describes one ladder update.
type Settlement struct {
	Winner   Team
	Gained   int
	Stolen   int
	Rollover bool
	// RolledOver lists the teams that crossed the threshold.
	RolledOver []Team
	Before     [2]int
	After      [2]int
}

// Settle transfers points to winner: a flat gain when the loser has nothing, otherwise
// a steal of up to MaxSteal. A team reaching LadderSize rolls over.
func (l *Ladder) Settle(winner Team) (Settlement, error) {
	if !winner.Valid() {
		return Settlement{}, integrityf("settle with invalid team %d", winner)
	}
	for i, p := range l.Points {
		if p < 0 || p >= LadderSize {
			return Settlement{}, integrityf("team %d ladder points %d out of range", i+1, p)
		}
	}

	s := Settlement{Winner: winner, Before: l.Points}
	w, lo := winner-1, winner.Other()-1
	if l.Points[lo] == 0 {
		s.Gained = FlatGain
	} else {
		s.Stolen = min(MaxSteal, l.Points[lo])
		s.Gained = s.Stolen
		l.Points[lo] -= s.Stolen
	}
	l.Points[w] += s.Gained

	for i := range l.Points {
		if l.Points[i] >= LadderSize {
			l.Points[i] -= LadderSize
			s.Rollover = true
			s.RolledOver = append(s.RolledOver, Team(i+1))
		}
	}
	s.After = l.Points
	return s, nil
}

// NextDistributor returns the distributor of the next game. A rollover skips one seat;
// otherwise the deal passes on only when the distributor's own team won.
func NextDistributor(current int, winner Team, rollover bool) int {
	switch {
	case rollover:
		return NextSeat(NextSeat(current))
	case TeamOf(current) == winner:
		return NextSeat(current)
	default:
		return current
	}
}
