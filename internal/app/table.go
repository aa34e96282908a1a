package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"supersuit/internal/domain"
)

var (
	ErrGameInProgress = fmt.Errorf("%w: game already in progress", domain.ErrIllegalIntent)
	ErrTrickResolving = fmt.Errorf("%w: trick is resolving", domain.ErrIllegalIntent)
	ErrUnknownIntent  = fmt.Errorf("%w: unknown intent", domain.ErrIllegalIntent)
	ErrTableClosed    = errors.New("table closed")
)

// TableOptions configures a Table. Zero values select the defaults.
type TableOptions struct {
	Rules      domain.Rules
	TrickDelay time.Duration
	// Distributor fixes the first game's distributor; 0 picks one at random.
	Distributor int
	Rng         *rand.Rand
}

// continuation is the deferred trick-to-trick transition.
type continuation struct {
	due    time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

// Table is the lifecycle controller of one table: it runs consecutive games, owns the
// ladder and serializes intents. It is not safe for concurrent use; the owner (a match
// loop or the simulator) is its single writer.
type Table struct {
	rules      domain.Rules
	trickDelay time.Duration
	rng        *rand.Rand

	game        *domain.Game
	ladder      domain.Ladder
	gameID      string
	gameNumber  int
	distributor int

	pending *continuation
	halted  error
	closed  bool
}

// NewTable constructs a Table with no game started.
func NewTable(opts TableOptions) *Table {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Rules.TrumpTiming == "" {
		opts.Rules = domain.DefaultRules()
	}
	if opts.TrickDelay <= 0 {
		opts.TrickDelay = DefaultTrickDelay
	}
	if !domain.ValidSeat(opts.Distributor) {
		opts.Distributor = 0
	}
	return &Table{
		rules:       opts.Rules,
		trickDelay:  opts.TrickDelay,
		rng:         opts.Rng,
		distributor: opts.Distributor,
	}
}

func (t *Table) usable() error {
	if t.halted != nil {
		return t.halted
	}
	if t.closed {
		return ErrTableClosed
	}
	return nil
}

// halt records an integrity violation; the table refuses all further work.
func (t *Table) halt(err error) error {
	t.halted = err
	t.cancelPending()
	return err
}

func (t *Table) fail(err error) error {
	if domain.IsIntegrityViolation(err) {
		return t.halt(err)
	}
	return err
}

// StartGame deals a new game. The distributor is the one recorded by the previous game's
// settlement, else the configured one, else a random seat.
func (t *Table) StartGame(now time.Time) ([]Event, error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	if t.game != nil && t.game.Phase == domain.PhaseInProgress {
		return nil, ErrGameInProgress
	}

	distributor := t.distributor
	if t.game != nil && t.game.NextDistributor != 0 {
		distributor = t.game.NextDistributor
	}
	if distributor == 0 {
		distributor = t.rng.Intn(domain.NumSeats) + 1
	}

	game, err := domain.NewGame(t.rules, distributor, t.rng)
	if err != nil {
		return nil, t.fail(err)
	}
	t.game = game
	t.distributor = distributor
	t.gameNumber++
	t.gameID = uuid.NewString()

	events := make([]Event, 0, domain.NumSeats+1)
	events = append(events, newEvent(GameStartedPayload{
		GameID:         t.gameID,
		GameNumber:     t.gameNumber,
		Distributor:    distributor,
		FirstToAct:     game.FirstToAct,
		FirstMoverTeam: game.FirstMoverTeam,
		Targets:        [2]int{game.Target(domain.Team1), game.Target(domain.Team2)},
	}))
	for seat := 1; seat <= domain.NumSeats; seat++ {
		events = append(events, t.handEvent(seat))
	}
	return events, nil
}

func (t *Table) handEvent(seat int) Event {
	hand := append([]domain.Card(nil), t.game.Hands[seat-1]...)
	domain.SortHand(hand)
	return newEvent(HandDealtPayload{Seat: seat, Hand: hand}, seat)
}

// ApplyIntent validates and applies one intent from seat. Rejected intents wrap
// domain.ErrIllegalIntent and leave the table untouched.
func (t *Table) ApplyIntent(seat int, intent Intent, now time.Time) ([]Event, error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	if t.game == nil || t.game.Phase != domain.PhaseInProgress {
		return nil, domain.ErrGameNotInProgress
	}
	if t.pending != nil {
		return nil, ErrTrickResolving
	}

	switch in := intent.(type) {
	case PlayCard:
		return t.playCard(seat, in.Card, now)
	case RevealTrump:
		return t.revealTrump(seat)
	default:
		return nil, ErrUnknownIntent
	}
}

func (t *Table) playCard(seat int, card domain.Card, now time.Time) ([]Event, error) {
	res, err := t.game.PlayCard(seat, card)
	if err != nil {
		return nil, t.fail(err)
	}

	trick := t.game.Trick
	nextTurn := trick.CurrentTurn
	events := []Event{newEvent(CardPlayedPayload{
		Seat:     seat,
		Card:     card,
		LedSuit:  trick.LedSuit,
		NextTurn: nextTurn,
	})}
	if !res.TrickComplete {
		return events, nil
	}

	winning, _ := trick.PlayedBy(res.TrickWinner)
	events = append(events, newEvent(TrickCompletedPayload{
		TrickNumber: t.game.TrickNumber,
		Winner:      res.TrickWinner,
		WinningCard: winning,
		TricksWon:   t.game.TricksWon,
	}))

	if res.GameOver {
		settled, err := t.settle()
		if err != nil {
			return nil, err
		}
		return append(events, settled...), nil
	}

	t.schedule(now.Add(t.trickDelay))
	return events, nil
}

func (t *Table) revealTrump(seat int) ([]Event, error) {
	card, err := t.game.RevealTrump(seat)
	if err != nil {
		return nil, t.fail(err)
	}
	holder := t.game.FirstToAct
	return []Event{
		newEvent(TrumpRevealedPayload{Seat: seat, TrumpSuit: card.Suit, Card: card, Holder: holder}),
		t.handEvent(holder),
	}, nil
}

func (t *Table) settle() ([]Event, error) {
	s, err := t.game.Settle(&t.ladder)
	if err != nil {
		return nil, t.fail(err)
	}
	events := []Event{newEvent(GameEndedPayload{
		GameID:          t.gameID,
		Winner:          s.Winner,
		TricksWon:       t.game.TricksWon,
		Settlement:      s,
		NextDistributor: t.game.NextDistributor,
	})}
	if s.Rollover {
		events = append(events, newEvent(BigWinPayload{Teams: s.RolledOver, Ladder: s.After}))
	}
	return events, nil
}

func (t *Table) schedule(due time.Time) {
	t.cancelPending()
	ctx, cancel := context.WithCancel(context.Background())
	t.pending = &continuation{due: due, ctx: ctx, cancel: cancel}
}

func (t *Table) cancelPending() {
	if t.pending != nil {
		t.pending.cancel()
		t.pending = nil
	}
}

// Advance runs the pending trick continuation once it is due.
func (t *Table) Advance(now time.Time) ([]Event, error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	p := t.pending
	if p == nil || now.Before(p.due) {
		return nil, nil
	}
	t.pending = nil
	if p.ctx.Err() != nil {
		return nil, nil
	}
	p.cancel()

	if err := t.game.NextTrick(); err != nil {
		return nil, t.fail(err)
	}
	return []Event{newEvent(TrickStartedPayload{
		TrickNumber: t.game.TrickNumber,
		Leader:      t.game.Trick.StartSeat,
	})}, nil
}

// Resolving reports whether a completed trick is on display and when it will clear.
func (t *Table) Resolving() (time.Time, bool) {
	if t.pending == nil {
		return time.Time{}, false
	}
	return t.pending.due, true
}

// Close tears the table down and cancels any pending continuation.
func (t *Table) Close() {
	t.cancelPending()
	t.closed = true
}

// Err returns the integrity violation that halted the table, if any.
func (t *Table) Err() error {
	return t.halted
}

// Game returns a copy of the current game, or nil before the first deal.
func (t *Table) Game() *domain.Game {
	if t.game == nil {
		return nil
	}
	return t.game.Clone()
}

// Ladder returns the current ladder.
func (t *Table) Ladder() domain.Ladder {
	return t.ladder
}

// InProgress reports whether a game is being played.
func (t *Table) InProgress() bool {
	return t.game != nil && t.game.Phase == domain.PhaseInProgress
}
