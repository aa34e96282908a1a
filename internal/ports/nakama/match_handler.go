package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"supersuit/internal/app"
	"supersuit/internal/bot"
	"supersuit/internal/config"
	"supersuit/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// Seats are 1-based everywhere outside the arrays.
type MatchState struct {
	Seats              [domain.NumSeats]string     `json:"seats"`      // user IDs, empty string means seat is empty
	Usernames          [domain.NumSeats]string     `json:"usernames"`  // last known username per seat
	OwnerSeat          int                         `json:"owner_seat"` // 0 when no connected human is seated
	Private            bool                        `json:"private"`    // joins require an invite token
	Tick               int64                       `json:"tick"`
	StartedAt          time.Time                   `json:"-"`
	Presences          map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging
	Table              *app.Table                  `json:"-"`
	Config             config.GameConfig           `json:"-"`
	Names              config.Names                `json:"-"`
	Invites            *app.InviteService          `json:"-"`
	Bots               map[string]*bot.Agent       `json:"-"` // active bot agents by user ID
	BotWaitUntil       int64                       `json:"bot_wait_until"`
	LastSeatChangeTick int64                       `json:"last_seat_change_tick"`
	HaltReported       bool                        `json:"halt_reported"`
	Rng                *rand.Rand                  `json:"-"`
}

func (ms *MatchState) OpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) OccupiedSeatCount() int {
	return domain.NumSeats - ms.OpenSeatsCount()
}

func (ms *MatchState) HumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// SeatOf returns the seat held by userID, or 0.
func (ms *MatchState) SeatOf(userID string) int {
	if userID == "" {
		return 0
	}
	for i, seatUserID := range ms.Seats {
		if seatUserID == userID {
			return i + 1
		}
	}
	return 0
}

// now maps the current tick to table time.
func (ms *MatchState) now() time.Time {
	return ms.StartedAt.Add(time.Duration(ms.Tick) * time.Second / tickRate)
}

func (ms *MatchState) botSeat() int {
	for i, userID := range ms.Seats {
		if isBotUserId(userID) {
			return i + 1
		}
	}
	return 0
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// findOwnerSeat returns the first seat held by a connected human, or 0.
func findOwnerSeat(seats []string, presences map[string]runtime.Presence) int {
	for i, userId := range seats {
		if userId == "" || isBotUserId(userId) {
			continue
		}
		if _, ok := presences[userId]; ok {
			return i + 1
		}
	}
	return 0
}

type matchHandler struct {
	cfg     config.GameConfig
	invites *app.InviteService
}

func newMatchHandler(cfg config.GameConfig, invites *app.InviteService) *matchHandler {
	return &matchHandler{cfg: cfg, invites: invites}
}

// MatchInit is called when the match is created. params may carry "private": true.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	private, _ := params["private"].(bool)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	state := &MatchState{
		Private:   private,
		StartedAt: time.Now(),
		Presences: make(map[string]runtime.Presence),
		Table: app.NewTable(app.TableOptions{
			Rules:      mh.cfg.Rules(),
			TrickDelay: mh.cfg.TrickDelay(),
			Rng:        rng,
		}),
		Config:  mh.cfg,
		Names:   config.DefaultNames(mh.cfg),
		Invites: mh.invites,
		Bots:    make(map[string]*bot.Agent),
		Rng:     rng,
	}

	label, err := encodeLabel(state.OpenSeatsCount(), labelLobby, private)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Debug("MatchInit: Table created (private=%t, trump_timing=%s).", private, mh.cfg.TrumpTiming)
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always reconnect.
	if ms.SeatOf(presence.GetUserId()) > 0 {
		return ms, true, ""
	}

	if ms.Private {
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		if _, err := ms.Invites.Verify(metadata[InviteMetadataKey], matchID); err != nil {
			logger.Warn("MatchJoinAttempt: User %s rejected from private table: %v", presence.GetUserId(), err)
			return ms, false, "invite required"
		}
	}

	if ms.OpenSeatsCount() == 0 && (ms.Table.InProgress() || ms.botSeat() == 0) {
		return ms, false, "Match full"
	}
	return ms, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		ms.Presences[userID] = p

		if seat := ms.SeatOf(userID); seat > 0 {
			ms.Usernames[seat-1] = p.GetUsername()
			logger.Info("MatchJoin: User %s reconnected to seat %d.", userID, seat)
			continue
		}

		// Empty seats first, then bots while no game is running.
		seat := domain.LowestAvailableSeat(&ms.Seats)
		if seat == 0 && !ms.Table.InProgress() {
			if seat = ms.botSeat(); seat > 0 {
				logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", ms.Seats[seat-1], userID, seat)
				delete(ms.Bots, ms.Seats[seat-1])
			}
		}
		if seat == 0 {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
			continue
		}

		ms.Seats[seat-1] = userID
		ms.Usernames[seat-1] = p.GetUsername()
		ms.LastSeatChangeTick = tick
		logger.Debug("MatchJoin: User %s took seat %d.", userID, seat)
	}

	mh.refreshOwner(ms, logger)
	mh.updateLabel(ms, dispatcher, logger)
	mh.broadcastMatchState(ms, dispatcher, logger)
	return ms
}

// MatchLeave is called when one or more players leave the match. Seats are held for
// reconnection while a game is being played.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(ms.Presences, userID)

		seat := ms.SeatOf(userID)
		if seat == 0 {
			continue
		}
		if ms.Table.InProgress() {
			logger.Info("MatchLeave: User %s disconnected, seat %d held.", userID, seat)
			continue
		}
		ms.Seats[seat-1] = ""
		ms.Usernames[seat-1] = ""
		ms.LastSeatChangeTick = tick
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
	}

	if len(ms.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.refreshOwner(ms, logger)
	mh.updateLabel(ms, dispatcher, logger)
	mh.broadcastMatchState(ms, dispatcher, logger)
	return ms
}

// refreshOwner keeps the current owner while they are seated and connected.
func (mh *matchHandler) refreshOwner(ms *MatchState, logger runtime.Logger) {
	if domain.ValidSeat(ms.OwnerSeat) {
		if userID := ms.Seats[ms.OwnerSeat-1]; userID != "" && !isBotUserId(userID) {
			if _, ok := ms.Presences[userID]; ok {
				return
			}
		}
	}
	owner := findOwnerSeat(ms.Seats[:], ms.Presences)
	if owner != ms.OwnerSeat {
		ms.OwnerSeat = owner
		logger.Debug("Owner set to seat %d.", owner)
	}
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}

	ms.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame, OpNextGame:
			mh.handleStartGame(ms, dispatcher, logger, msg)
		case OpPlayCard, OpRevealTrump:
			mh.handleIntent(ms, dispatcher, logger, msg)
		case OpConfigureNames:
			mh.handleConfigureNames(ms, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.advanceTable(ms, dispatcher, logger)

	if ms.Config.BotsEnabled {
		mh.processBots(ms, dispatcher, logger)
	}
	return ms
}

func (mh *matchHandler) handleStartGame(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := ms.SeatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, ms.OwnerSeat, ms.OccupiedSeatCount())

	if senderSeat == 0 || senderSeat != ms.OwnerSeat {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectForbidden, "only the table owner can start a game")
		return
	}
	played := ms.Table.Game() != nil
	if msg.GetOpCode() == OpStartGame && played {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectConflict, "table already started, request the next game")
		return
	}
	if msg.GetOpCode() == OpNextGame && !played {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectConflict, "no game has been played yet")
		return
	}
	if n := ms.OccupiedSeatCount(); n < app.SeatsToStart {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectConflict, fmt.Sprintf("need %d seated players, have %d", app.SeatsToStart, n))
		return
	}

	events, err := ms.Table.StartGame(ms.now())
	if err != nil {
		logger.Warn("StartGame: Failed to start game: %v", err)
		mh.handleTableError(ms, dispatcher, logger, senderID, err)
		return
	}
	ms.BotWaitUntil = 0
	mh.dispatchEvents(ms, dispatcher, logger, events)
	logger.Info("StartGame: Game started by seat %d.", senderSeat)
}

func (mh *matchHandler) handleIntent(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	seat := ms.SeatOf(senderID)
	if seat == 0 {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectForbidden, "not seated at this table")
		return
	}

	intent, err := decodeIntent(msg.GetOpCode(), msg.GetData())
	if err != nil {
		logger.Warn("Intent: Bad message from %s (seat %d): %v", senderID, seat, err)
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectBadRequest, err.Error())
		return
	}

	events, err := ms.Table.ApplyIntent(seat, intent, ms.now())
	if err != nil {
		logger.Warn("Intent: Seat %d %T rejected: %v", seat, intent, err)
		mh.handleTableError(ms, dispatcher, logger, senderID, err)
		return
	}
	mh.dispatchEvents(ms, dispatcher, logger, events)
}

func (mh *matchHandler) handleConfigureNames(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if seat := ms.SeatOf(senderID); seat == 0 || seat != ms.OwnerSeat {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectForbidden, "only the table owner can configure names")
		return
	}
	update, err := decodeNames(msg.GetData())
	if err == nil {
		err = ms.Names.Apply(update)
	}
	if err != nil {
		mh.sendRejection(ms, dispatcher, logger, senderID, rejectBadRequest, err.Error())
		return
	}
	logger.Info("ConfigureNames: Names updated by %s.", senderID)
	mh.broadcastMatchState(ms, dispatcher, logger)
}

// advanceTable fires the pending trick continuation when it is due.
func (mh *matchHandler) advanceTable(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := ms.Table.Advance(ms.now())
	if err != nil {
		if domain.IsIntegrityViolation(err) {
			mh.reportHalt(ms, dispatcher, logger)
		}
		return
	}
	if len(events) > 0 {
		mh.dispatchEvents(ms, dispatcher, logger, events)
	}
}

func (mh *matchHandler) handleTableError(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	if domain.IsIntegrityViolation(err) {
		mh.reportHalt(ms, dispatcher, logger)
		return
	}
	mh.sendRejection(ms, dispatcher, logger, userID, rejectConflict, err.Error())
}

// reportHalt tells everyone once that the table stopped on an integrity violation.
func (mh *matchHandler) reportHalt(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if ms.HaltReported {
		return
	}
	ms.HaltReported = true
	reason := "table halted"
	if err := ms.Table.Err(); err != nil {
		reason = err.Error()
	}
	logger.Error("Table halted: %s", reason)

	data, err := encodeHalt(reason)
	if err != nil {
		logger.Error("Failed to marshal halt message: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTableHalted, data, nil, nil, true)
	mh.updateLabel(ms, dispatcher, logger)
}

func (mh *matchHandler) processBots(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill open seats once humans have waited long enough.
	if !ms.Table.InProgress() && ms.HumanPlayerCount() > 0 && ms.OpenSeatsCount() > 0 {
		if ms.Tick-ms.LastSeatChangeTick >= int64(ms.Config.BotAutoFillDelaySeconds*tickRate) {
			mh.fillWithBots(ms, dispatcher, logger)
		}
		return
	}

	// 2. Handle bot turns in-game.
	if !ms.Table.InProgress() {
		ms.BotWaitUntil = 0
		return
	}
	if _, resolving := ms.Table.Resolving(); resolving {
		return
	}
	game := ms.Table.Game()
	seat := game.Trick.CurrentTurn
	if !domain.ValidSeat(seat) {
		return
	}
	userID := ms.Seats[seat-1]
	agent, ok := ms.Bots[userID]
	if !ok {
		ms.BotWaitUntil = 0
		return
	}

	if ms.BotWaitUntil == 0 {
		delay := ms.Config.BotMinDelay
		if spread := ms.Config.BotMaxDelay - ms.Config.BotMinDelay; spread > 0 {
			delay += ms.Rng.Intn(spread + 1)
		}
		ms.BotWaitUntil = ms.Tick + int64(delay*tickRate)
		logger.Debug("processBots: Bot %s (seat %d) will act at tick %d (current %d)", userID, seat, ms.BotWaitUntil, ms.Tick)
	}
	if ms.Tick < ms.BotWaitUntil {
		return
	}
	ms.BotWaitUntil = 0

	move, err := agent.Play(game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", userID, err)
		return
	}
	events, err := ms.Table.ApplyIntent(seat, move.Intent(), ms.now())
	if err != nil {
		logger.Error("processBots: Bot %s (seat %d) move rejected: %v", userID, seat, err)
		if domain.IsIntegrityViolation(err) {
			mh.reportHalt(ms, dispatcher, logger)
		}
		return
	}
	mh.dispatchEvents(ms, dispatcher, logger, events)
}

func (mh *matchHandler) fillWithBots(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	added := false
	next := 0
	for i, userID := range ms.Seats {
		if userID != "" {
			continue
		}
		identity, ok := mh.nextBotIdentity(ms, &next)
		if !ok {
			logger.Warn("processBots: No free bot identity for seat %d", i+1)
			break
		}
		agent, err := bot.NewAgent(identity, i+1, ms.Rng)
		if err != nil {
			logger.Error("Failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		ms.Seats[i] = identity.UserID
		ms.Usernames[i] = agent.Name
		ms.Bots[identity.UserID] = agent
		added = true
		logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, identity.UserID, i+1)
	}
	ms.LastSeatChangeTick = ms.Tick
	if added {
		mh.updateLabel(ms, dispatcher, logger)
		mh.broadcastMatchState(ms, dispatcher, logger)
	}
}

func (mh *matchHandler) nextBotIdentity(ms *MatchState, next *int) (bot.BotIdentity, bool) {
	for ; *next < 4*domain.NumSeats; *next++ {
		identity := bot.GetBotIdentity(*next)
		if ms.SeatOf(identity.UserID) == 0 {
			*next++
			return identity, true
		}
	}
	return bot.BotIdentity{}, false
}

// dispatchEvents forwards table events to connected presences and seated bots, then
// rebroadcasts the table state.
func (mh *matchHandler) dispatchEvents(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	relabel := false
	for _, ev := range events {
		mh.notifyBots(ms, ev)

		op, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}
		switch ev.Kind {
		case app.EventGameStarted, app.EventGameEnded:
			relabel = true
		}

		if !ev.Private() {
			dispatcher.BroadcastMessage(op, data, nil, nil, true)
			continue
		}
		// Intended recipients that are bots or disconnected must not turn this into a broadcast.
		recipients := ms.presencesFor(ev.Recipients)
		if len(recipients) == 0 {
			continue
		}
		dispatcher.BroadcastMessage(op, data, recipients, nil, true)
	}

	if relabel {
		mh.updateLabel(ms, dispatcher, logger)
	}
	mh.broadcastMatchState(ms, dispatcher, logger)
}

func (mh *matchHandler) notifyBots(ms *MatchState, ev app.Event) {
	for _, agent := range ms.Bots {
		if !ev.Private() || containsSeat(ev.Recipients, agent.Seat) {
			agent.OnGameEvent(ev)
		}
	}
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}

func (ms *MatchState) presencesFor(seats []int) []runtime.Presence {
	var out []runtime.Presence
	for _, seat := range seats {
		if !domain.ValidSeat(seat) {
			continue
		}
		if p, ok := ms.Presences[ms.Seats[seat-1]]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (ms *MatchState) view() matchView {
	v := matchView{
		OwnerSeat: ms.OwnerSeat,
		Names:     ms.Names,
		Private:   ms.Private,
		Tick:      ms.Tick,
		Snapshot:  ms.Table.Snapshot(),
	}
	for i, userID := range ms.Seats {
		if userID == "" {
			continue
		}
		_, connected := ms.Presences[userID]
		isBot := isBotUserId(userID)
		v.Seats[i] = seatView{
			UserID:    userID,
			Username:  ms.Usernames[i],
			Bot:       isBot,
			Connected: connected || isBot,
		}
	}
	return v
}

// broadcastMatchState sends every presence the table state with its own hand.
func (mh *matchHandler) broadcastMatchState(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	v := ms.view()
	for userID, p := range ms.Presences {
		data, err := encodeMatchState(v, ms.SeatOf(userID))
		if err != nil {
			logger.Error("Failed to marshal match state for %s: %v", userID, err)
			continue
		}
		dispatcher.BroadcastMessage(OpMatchState, data, []runtime.Presence{p}, nil, true)
	}
}

// sendRejection tells a single user why their message was refused.
func (mh *matchHandler) sendRejection(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := ms.Presences[userID]
	if !ok {
		logger.Warn("Cannot send rejection to %s: Presence not found", userID)
		return
	}
	data, err := encodeRejection(code, message)
	if err != nil {
		logger.Error("Failed to marshal rejection: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpIntentRejected, data, []runtime.Presence{presence}, nil, true)
}

func labelState(ms *MatchState) string {
	if ms.Table.Err() != nil {
		return labelHalted
	}
	switch ms.Table.Snapshot().Phase {
	case domain.PhaseInProgress:
		return labelPlaying
	case domain.PhaseCompleted:
		return labelCompleted
	}
	return labelLobby
}

func (mh *matchHandler) updateLabel(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(ms.OpenSeatsCount(), labelState(ms), ms.Private)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if ms, ok := state.(*MatchState); ok {
		ms.Table.Close()
	}
	logger.Debug("MatchTerminate: Match terminated (grace %d s)", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
