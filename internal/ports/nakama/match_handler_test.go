package nakama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"supersuit/internal/app"
	"supersuit/internal/config"
	"supersuit/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent   []sentMessage
	labels []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) byOp(op int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.sent {
		if m.opCode == op {
			out = append(out, m)
		}
	}
	return out
}

func (md *mockDispatcher) lastLabel(t *testing.T) map[string]interface{} {
	t.Helper()
	if len(md.labels) == 0 {
		t.Fatal("no label update recorded")
	}
	var label map[string]interface{}
	if err := json.Unmarshal([]byte(md.labels[len(md.labels)-1]), &label); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	return label
}

// fakePresence only answers the calls the handler makes.
type fakePresence struct {
	runtime.Presence
	userID   string
	username string
}

func (p *fakePresence) GetUserId() string   { return p.userID }
func (p *fakePresence) GetUsername() string { return p.username }

type fakeMatchData struct {
	runtime.MatchData
	userID string
	op     int64
	data   []byte
}

func (m *fakeMatchData) GetUserId() string { return m.userID }
func (m *fakeMatchData) GetOpCode() int64  { return m.op }
func (m *fakeMatchData) GetData() []byte   { return m.data }

func newTestMatch(t *testing.T, cfg config.GameConfig, invites *app.InviteService) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	mh := newMatchHandler(cfg, invites)
	state, rate, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"private": invites != nil})
	if rate != tickRate || label == "" {
		t.Fatalf("MatchInit returned rate %d label %q", rate, label)
	}
	ms := state.(*MatchState)
	ms.StartedAt = time.Unix(0, 0)
	return mh, ms, &mockDispatcher{}
}

func humans(n int) []runtime.Presence {
	out := make([]runtime.Presence, 0, n)
	for i := 1; i <= n; i++ {
		id := string(rune('a' + i - 1))
		out = append(out, &fakePresence{userID: "user-" + id, username: "player-" + id})
	}
	return out
}

func botConfig() config.GameConfig {
	cfg := config.Default()
	cfg.BotsEnabled = true
	cfg.BotMinDelay = 0
	cfg.BotMaxDelay = 0
	cfg.BotAutoFillDelaySeconds = 0
	return cfg
}

func TestFindOwnerSeat(t *testing.T) {
	connected := map[string]runtime.Presence{
		"user-1": &fakePresence{userID: "user-1"},
		"user-2": &fakePresence{userID: "user-2"},
	}
	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{name: "FirstHumanAfterBot", seats: []string{"bot-0", "user-1", "", "", "", ""}, want: 2},
		{name: "AllBots", seats: []string{"bot-0", "bot-1", "", "", "", ""}, want: 0},
		{name: "AllEmpty", seats: []string{"", "", "", "", "", ""}, want: 0},
		{name: "DisconnectedHumanSkipped", seats: []string{"user-9", "bot-1", "user-2", "", "", ""}, want: 3},
		{name: "FirstHumanIsSeatOne", seats: []string{"user-1", "bot-1", "user-2", "", "", ""}, want: 1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findOwnerSeat(test.seats, connected); got != test.want {
				t.Fatalf("findOwnerSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestMatchJoin_AssignsSeatsInJoinOrder(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(2))

	if ms.Seats[0] != "user-a" || ms.Seats[1] != "user-b" {
		t.Fatalf("unexpected seats %v", ms.Seats)
	}
	if ms.OwnerSeat != 1 {
		t.Fatalf("OwnerSeat = %d, want 1", ms.OwnerSeat)
	}
	if got := d.lastLabel(t)["open"]; got != 4.0 {
		t.Fatalf("label open = %v, want 4", got)
	}
	if states := d.byOp(OpMatchState); len(states) != 2 {
		t.Fatalf("expected one state message per presence, got %d", len(states))
	}
}

func TestMatchJoinAttempt_PrivateTableRequiresInvite(t *testing.T) {
	invites := app.NewInviteService("secret", "supersuit", time.Hour)
	mh, ms, d := newTestMatch(t, config.Default(), invites)
	if !ms.Private {
		t.Fatal("expected a private table")
	}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_MATCH_ID, "match-1")
	p := &fakePresence{userID: "user-a"}

	if _, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, d, 0, ms, p, nil); ok {
		t.Fatal("join without invite accepted")
	}

	other, err := invites.Issue("match-2", "owner")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, d, 0, ms, p, map[string]string{InviteMetadataKey: other}); ok {
		t.Fatal("join with another table's invite accepted")
	}

	token, err := invites.Issue("match-1", "owner")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, ok, reason := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, d, 0, ms, p, map[string]string{InviteMetadataKey: token}); !ok {
		t.Fatalf("join with valid invite rejected: %s", reason)
	}
}

func TestMatchJoinAttempt_FullTable(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(6))

	if _, ok, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, d, 0, ms, &fakePresence{userID: "late"}, nil); ok {
		t.Fatal("seventh player accepted")
	}
	if _, ok, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, d, 0, ms, &fakePresence{userID: "user-c"}, nil); !ok {
		t.Fatal("seated player could not reconnect")
	}
}

func TestProcessBots_FillsOpenSeats(t *testing.T) {
	mh, ms, d := newTestMatch(t, botConfig(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(1))
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 1, ms, nil)

	if ms.OpenSeatsCount() != 0 {
		t.Fatalf("expected a full table, %d seats open", ms.OpenSeatsCount())
	}
	if len(ms.Bots) != domain.NumSeats-1 {
		t.Fatalf("expected %d bots, got %d", domain.NumSeats-1, len(ms.Bots))
	}
	if ms.OwnerSeat != 1 {
		t.Fatalf("OwnerSeat = %d, want 1", ms.OwnerSeat)
	}

	// A human joining before the game starts replaces a bot.
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 2, ms, []runtime.Presence{&fakePresence{userID: "user-z"}})
	if ms.SeatOf("user-z") != 2 || len(ms.Bots) != domain.NumSeats-2 {
		t.Fatalf("expected user-z in seat 2 replacing a bot, seats %v", ms.Seats)
	}
}

func TestStartGame_RequiresOwnerAndFullTable(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(2))

	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 1, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-b", op: OpStartGame},
		&fakeMatchData{userID: "user-a", op: OpStartGame},
	})
	if ms.Table.InProgress() {
		t.Fatal("game started without a full table")
	}
	rejections := d.byOp(OpIntentRejected)
	if len(rejections) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejections))
	}
	first := map[string]interface{}{}
	if err := json.Unmarshal(rejections[0].data, &first); err != nil {
		t.Fatalf("bad rejection payload: %v", err)
	}
	if first["code"] != float64(rejectForbidden) {
		t.Fatalf("non-owner rejection code = %v", first["code"])
	}
	if len(rejections[0].presences) != 1 || rejections[0].presences[0].GetUserId() != "user-b" {
		t.Fatal("rejection must go only to the sender")
	}
}

func TestStartGame_DealsPrivately(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(6))
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 1, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-a", op: OpStartGame},
	})
	if !ms.Table.InProgress() {
		t.Fatal("game did not start")
	}

	hands := d.byOp(OpHandDealt)
	if len(hands) != domain.NumSeats {
		t.Fatalf("expected %d private hands, got %d", domain.NumSeats, len(hands))
	}
	for _, m := range hands {
		if len(m.presences) != 1 {
			t.Fatalf("hand sent to %d presences", len(m.presences))
		}
	}
	if got := d.lastLabel(t)["state"]; got != labelPlaying {
		t.Fatalf("label state = %v, want %s", got, labelPlaying)
	}
	if len(d.byOp(OpGameStarted)) != 1 {
		t.Fatal("expected one game_started broadcast")
	}
}

func TestHandleIntent_RejectsOffTurnPlay(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	players := humans(6)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, players)
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 1, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-a", op: OpStartGame},
	})

	game := ms.Table.Game()
	offTurn := domain.NextSeat(game.Trick.CurrentTurn)
	card := game.Hands[offTurn-1][0]
	userID := players[offTurn-1].GetUserId()

	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 2, ms, []runtime.MatchData{
		&fakeMatchData{userID: userID, op: OpPlayCard, data: []byte(`{"card":"` + card.String() + `"}`)},
		&fakeMatchData{userID: userID, op: OpPlayCard, data: []byte(`{"card":"nonsense"}`)},
	})

	rejections := d.byOp(OpIntentRejected)
	if len(rejections) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejections))
	}
	if len(d.byOp(OpCardPlayed)) != 0 {
		t.Fatal("rejected play was broadcast")
	}
	if got := ms.Table.Game(); len(got.Trick.Plays) != 0 || len(got.Hands[offTurn-1]) != len(game.Hands[offTurn-1]) {
		t.Fatal("rejected intent changed the table")
	}
}

func TestMatchLoop_PlaysFullGameAgainstBots(t *testing.T) {
	mh, ms, d := newTestMatch(t, botConfig(), nil)
	ctx := context.Background()
	mh.MatchJoin(ctx, noopLogger{}, nil, nil, d, 0, ms, humans(1))
	mh.MatchLoop(ctx, noopLogger{}, nil, nil, d, 1, ms, nil)
	mh.MatchLoop(ctx, noopLogger{}, nil, nil, d, 2, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-a", op: OpStartGame},
	})
	if !ms.Table.InProgress() {
		t.Fatal("game did not start")
	}

	for tick := int64(3); ms.Table.InProgress(); tick++ {
		if tick > 5000 {
			t.Fatal("game did not finish")
		}
		var msgs []runtime.MatchData
		game := ms.Table.Game()
		if _, resolving := ms.Table.Resolving(); !resolving && game.Trick.CurrentTurn == 1 {
			if legal := game.LegalPlays(1); len(legal) > 0 {
				msgs = append(msgs, &fakeMatchData{userID: "user-a", op: OpPlayCard, data: []byte(`{"card":"` + legal[0].String() + `"}`)})
			} else {
				msgs = append(msgs, &fakeMatchData{userID: "user-a", op: OpRevealTrump})
			}
		}
		mh.MatchLoop(ctx, noopLogger{}, nil, nil, d, tick, ms, msgs)
	}

	if n := len(d.byOp(OpIntentRejected)); n != 0 {
		t.Fatalf("unexpected rejections: %d", n)
	}
	if len(d.byOp(OpGameEnded)) != 1 {
		t.Fatal("expected one game_ended broadcast")
	}
	if got := d.lastLabel(t)["state"]; got != labelCompleted {
		t.Fatalf("label state = %v, want %s", got, labelCompleted)
	}
	ladder := ms.Table.Ladder()
	if ladder.Points[0]+ladder.Points[1] != domain.FlatGain {
		t.Fatalf("first game should award the flat gain, ladder %v", ladder.Points)
	}

	// The owner can deal the next game.
	mh.MatchLoop(ctx, noopLogger{}, nil, nil, d, 6000, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-a", op: OpNextGame},
	})
	if !ms.Table.InProgress() {
		t.Fatal("next game did not start")
	}
}

func TestMatchLeave(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	players := humans(6)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, players)

	// Lobby: the seat is freed and ownership moves on.
	mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, d, 1, ms, players[:1])
	if ms.Seats[0] != "" || ms.OwnerSeat != 2 {
		t.Fatalf("seats %v owner %d", ms.Seats, ms.OwnerSeat)
	}

	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 2, ms, players[:1])
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 3, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-b", op: OpStartGame},
	})
	if !ms.Table.InProgress() {
		t.Fatal("game did not start")
	}

	// Mid-game: the seat is held for reconnection.
	mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, d, 4, ms, players[2:3])
	if ms.SeatOf("user-c") != 3 {
		t.Fatal("seat was not held during the game")
	}

	if got := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, d, 5, ms, players); got != nil {
		t.Fatal("expected termination when nobody is connected")
	}
}

func TestConfigureNames(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, d, 0, ms, humans(2))

	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, d, 1, ms, []runtime.MatchData{
		&fakeMatchData{userID: "user-b", op: OpConfigureNames, data: []byte(`{"teams":["Hijack"]}`)},
		&fakeMatchData{userID: "user-a", op: OpConfigureNames, data: []byte(`{"teams":["Red","Blue"],"seats":["","Bea"]}`)},
	})

	if ms.Names.Teams != [2]string{"Red", "Blue"} || ms.Names.Seat(2) != "Bea" || ms.Names.Seat(1) != "Player 1" {
		t.Fatalf("unexpected names %+v", ms.Names)
	}
	if len(d.byOp(OpIntentRejected)) != 1 {
		t.Fatal("expected the non-owner update to be rejected")
	}
}

func TestMatchTerminate_ClosesTable(t *testing.T) {
	mh, ms, d := newTestMatch(t, config.Default(), nil)
	mh.MatchTerminate(context.Background(), noopLogger{}, nil, nil, d, 0, ms, 0)
	if _, err := ms.Table.StartGame(time.Unix(0, 0)); err == nil {
		t.Fatal("closed table started a game")
	}
}
