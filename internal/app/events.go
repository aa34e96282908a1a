package app

import "supersuit/internal/domain"

// EventKind identifies emitted table events for transport dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardPlayed     EventKind = "card_played"
	EventTrumpRevealed  EventKind = "trump_revealed"
	EventTrickCompleted EventKind = "trick_completed"
	EventTrickStarted   EventKind = "trick_started"
	EventGameEnded      EventKind = "game_ended"
	EventBigWin         EventKind = "big_win"
)

// Payload is implemented only by the payload types below.
type Payload interface {
	kind() EventKind
}

// Event is a table event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    Payload
	Recipients []int // seats; empty means broadcast
}

func newEvent(p Payload, recipients ...int) Event {
	return Event{Kind: p.kind(), Payload: p, Recipients: recipients}
}

// Private reports whether the event must only reach its recipients.
func (e Event) Private() bool {
	return len(e.Recipients) > 0
}

type GameStartedPayload struct {
	GameID         string
	GameNumber     int
	Distributor    int
	FirstToAct     int
	FirstMoverTeam domain.Team
	Targets        [2]int
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type CardPlayedPayload struct {
	Seat     int
	Card     domain.Card
	LedSuit  domain.Suit
	NextTurn int // 0 once the trick is complete
}

type TrumpRevealedPayload struct {
	Seat      int
	TrumpSuit domain.Suit
	Card      domain.Card
	// Holder is the first-to-act seat that receives the reserve card.
	Holder int
}

type TrickCompletedPayload struct {
	TrickNumber int
	Winner      int
	WinningCard domain.Card
	TricksWon   [2]int
}

type TrickStartedPayload struct {
	TrickNumber int
	Leader      int
}

type GameEndedPayload struct {
	GameID          string
	Winner          domain.Team
	TricksWon       [2]int
	Settlement      domain.Settlement
	NextDistributor int
}

type BigWinPayload struct {
	Teams  []domain.Team
	Ladder [2]int
}

func (GameStartedPayload) kind() EventKind    { return EventGameStarted }
func (HandDealtPayload) kind() EventKind      { return EventHandDealt }
func (CardPlayedPayload) kind() EventKind     { return EventCardPlayed }
func (TrumpRevealedPayload) kind() EventKind  { return EventTrumpRevealed }
func (TrickCompletedPayload) kind() EventKind { return EventTrickCompleted }
func (TrickStartedPayload) kind() EventKind   { return EventTrickStarted }
func (GameEndedPayload) kind() EventKind      { return EventGameEnded }
func (BigWinPayload) kind() EventKind         { return EventBigWin }
