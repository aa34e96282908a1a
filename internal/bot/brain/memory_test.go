package brain

import (
	"testing"

	"supersuit/internal/domain"
)

func TestMemoryTracksMasterCards(t *testing.T) {
	m := NewMemory()
	king := domain.Card{Suit: domain.SuitHearts, Rank: domain.RankKing}
	ace := domain.Card{Suit: domain.SuitHearts, Rank: domain.RankAce}

	m.UpdateHand([]domain.Card{king})
	if m.IsMaster(king) {
		t.Fatalf("king is not master while the ace is unseen")
	}
	m.RecordPlay(3, ace, domain.SuitHearts)
	if !m.IsMaster(king) {
		t.Fatalf("king should be master once the ace is played")
	}
	if got := m.Outstanding(domain.SuitHearts); got != 10 {
		t.Fatalf("Outstanding(hearts) = %d, want 10", got)
	}

	m.UpdateHand(nil)
	if m.DeckStatus[cardToIndex(king)] != StatusUnknown {
		t.Fatalf("card leaving the hand should revert to unknown")
	}
}

func TestMemoryInfersVoids(t *testing.T) {
	m := NewMemory()
	m.RecordTrump(domain.SuitClubs)
	m.RecordPlay(2, domain.Card{Suit: domain.SuitClubs, Rank: domain.RankFive}, domain.SuitSpades)
	m.RecordPlay(3, domain.Card{Suit: domain.SuitSpades, Rank: domain.RankFive}, domain.SuitSpades)

	if !m.OpponentsVoid(1, domain.SuitSpades) {
		t.Fatalf("seat 2 showed a spade void to seat 1")
	}
	if m.OpponentsVoid(4, domain.SuitSpades) {
		t.Fatalf("seat 2 is seat 4's partner")
	}
	if m.Opponents[2].TrumpsPlayed != 1 {
		t.Fatalf("trump count = %d", m.Opponents[2].TrumpsPlayed)
	}

	m.Reset()
	if m.Trump != domain.SuitNone || len(m.Opponents) != 0 {
		t.Fatalf("Reset left state behind")
	}
}
