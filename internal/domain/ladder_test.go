package domain

import "testing"

func TestLadderSettle(t *testing.T) {
	tests := []struct {
		name         string
		before       [2]int
		winner       Team
		wantAfter    [2]int
		wantGained   int
		wantStolen   int
		wantRollover bool
	}{
		{name: "flat gain when loser is empty", before: [2]int{0, 0}, winner: Team1, wantAfter: [2]int{5, 0}, wantGained: 5},
		{name: "steal everything below ten", before: [2]int{12, 7}, winner: Team1, wantAfter: [2]int{19, 0}, wantGained: 7, wantStolen: 7},
		{name: "steal is capped at ten", before: [2]int{3, 25}, winner: Team1, wantAfter: [2]int{13, 15}, wantGained: 10, wantStolen: 10},
		{name: "team two wins", before: [2]int{4, 4}, winner: Team2, wantAfter: [2]int{0, 8}, wantGained: 4, wantStolen: 4},
		{name: "steal crosses the threshold", before: [2]int{23, 10}, winner: Team1, wantAfter: [2]int{1, 0}, wantGained: 10, wantStolen: 10, wantRollover: true},
		{name: "flat gain lands exactly on threshold", before: [2]int{0, 27}, winner: Team2, wantAfter: [2]int{0, 0}, wantGained: 5, wantRollover: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Ladder{Points: tt.before}
			s, err := l.Settle(tt.winner)
			if err != nil {
				t.Fatalf("Settle: %v", err)
			}
			if l.Points != tt.wantAfter || s.After != tt.wantAfter {
				t.Fatalf("points = %v (settlement %v), want %v", l.Points, s.After, tt.wantAfter)
			}
			if s.Gained != tt.wantGained || s.Stolen != tt.wantStolen || s.Rollover != tt.wantRollover {
				t.Fatalf("settlement = %+v", s)
			}
			if s.Before != tt.before {
				t.Fatalf("Before = %v, want %v", s.Before, tt.before)
			}
		})
	}
}

func TestLadderStaysInRange(t *testing.T) {
	l := Ladder{}
	winners := []Team{Team1, Team1, Team2, Team1, Team1, Team1, Team2, Team2, Team2, Team1, Team1, Team1, Team1, Team1}
	for i := 0; i < 20; i++ {
		for _, w := range winners {
			if _, err := l.Settle(w); err != nil {
				t.Fatalf("Settle: %v", err)
			}
			for _, p := range l.Points {
				if p < 0 || p >= LadderSize {
					t.Fatalf("points %v out of range", l.Points)
				}
			}
		}
	}
}

func TestLadderRejectsCorruptPoints(t *testing.T) {
	l := Ladder{Points: [2]int{40, 0}}
	if _, err := l.Settle(Team1); !IsIntegrityViolation(err) {
		t.Fatalf("err = %v, want integrity violation", err)
	}
	if _, err := (&Ladder{}).Settle(TeamNone); !IsIntegrityViolation(err) {
		t.Fatalf("err = %v, want integrity violation", err)
	}
}

func TestNextDistributor(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		winner   Team
		rollover bool
		want     int
	}{
		{name: "distributor team wins", current: 1, winner: Team1, want: 2},
		{name: "other team wins", current: 1, winner: Team2, want: 1},
		{name: "even distributor team wins", current: 6, winner: Team2, want: 1},
		{name: "rollover skips a seat", current: 1, winner: Team2, rollover: true, want: 3},
		{name: "rollover wraps", current: 5, winner: Team1, rollover: true, want: 1},
		{name: "rollover ignores winner", current: 6, winner: Team2, rollover: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDistributor(tt.current, tt.winner, tt.rollover); got != tt.want {
				t.Fatalf("NextDistributor() = %d, want %d", got, tt.want)
			}
		})
	}
}
