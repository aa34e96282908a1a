package domain

// Team identifies one of the two partnerships.
type Team int

const (
	TeamNone Team = 0
	Team1    Team = 1
	Team2    Team = 2
)

// Other returns the opposing team.
func (t Team) Other() Team {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	}
	return TeamNone
}

// Valid reports whether t is Team1 or Team2.
func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// Seats returns the seats belonging to the team in clockwise order.
func (t Team) Seats() []int {
	switch t {
	case Team1:
		return []int{1, 3, 5}
	case Team2:
		return []int{2, 4, 6}
	}
	return nil
}

// TeamOf returns the team a seat belongs to. Odd seats play for Team1, even seats for Team2,
// so partners never sit next to each other.
func TeamOf(seat int) Team {
	if !ValidSeat(seat) {
		return TeamNone
	}
	if seat%2 == 1 {
		return Team1
	}
	return Team2
}

// ValidSeat reports whether seat is in 1..NumSeats.
func ValidSeat(seat int) bool {
	return seat >= 1 && seat <= NumSeats
}

// NextSeat returns the seat clockwise from seat. Every rotation in the game goes through here.
func NextSeat(seat int) int {
	return seat%NumSeats + 1
}

// LowestAvailableSeat returns the first free seat (1-based) or 0 when the table is full.
func LowestAvailableSeat(seats *[NumSeats]string) int {
	for i, userID := range seats {
		if userID == "" {
			return i + 1
		}
	}
	return 0
}

// HasCard reports whether hand holds card.
func HasCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether hand holds at least one card of suit.
func HasSuit(hand []Card, suit Suit) bool {
	if suit == SuitNone {
		return false
	}
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// RemoveCard removes one occurrence of card from hand and returns the updated hand.
// The second result is false when the card was not in the hand.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			updated := make([]Card, 0, len(hand)-1)
			updated = append(updated, hand[:i]...)
			updated = append(updated, hand[i+1:]...)
			return updated, true
		}
	}
	return hand, false
}
