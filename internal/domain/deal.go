package domain

import "math/rand"

// Deal is the outcome of distributing one shuffled deck.
type Deal struct {
	Hands      [NumSeats][]Card
	Reserve    Card
	FirstToAct int
}

// DealCards distributes deck one card at a time clockwise, starting with the seat after the
// distributor, then sets aside one random card from the first-to-act seat as the reserve card.
func DealCards(deck []Card, distributor int, rng *rand.Rand) (Deal, error) {
	if !ValidSeat(distributor) {
		return Deal{}, integrityf("invalid distributor seat %d", distributor)
	}
	if err := checkDeck(deck); err != nil {
		return Deal{}, err
	}

	var deal Deal
	seat := distributor
	for _, card := range deck {
		seat = NextSeat(seat)
		deal.Hands[seat-1] = append(deal.Hands[seat-1], card)
	}

	deal.FirstToAct = NextSeat(distributor)
	hand := deal.Hands[deal.FirstToAct-1]
	idx := rng.Intn(len(hand))
	deal.Reserve = hand[idx]
	deal.Hands[deal.FirstToAct-1], _ = RemoveCard(hand, deal.Reserve)
	return deal, nil
}

func checkDeck(deck []Card) error {
	if len(deck) != DeckSize {
		return integrityf("deck has %d cards, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if !c.Valid() {
			return integrityf("invalid card %+v in deck", c)
		}
		if seen[c] {
			return integrityf("duplicate card detected: %s", c)
		}
		seen[c] = true
	}
	return nil
}
