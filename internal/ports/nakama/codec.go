package nakama

import (
	"errors"
	"fmt"

	"supersuit/internal/app"
	"supersuit/internal/config"
	"supersuit/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every message on the wire is a JSON object. Messages are built as structpb.Struct values
// and rendered with protojson, so clients can decode them with any protobuf runtime that
// understands the well-known Struct type, or as plain JSON.

var ErrMalformedMessage = errors.New("malformed message")

func marshalStruct(fields map[string]interface{}) ([]byte, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	return protojson.Marshal(msg)
}

func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	msg := &structpb.Struct{}
	if len(data) == 0 {
		return msg, nil
	}
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func pair(v [2]int) []interface{} {
	return []interface{}{v[0], v[1]}
}

func teamList(teams []domain.Team) []interface{} {
	out := make([]interface{}, 0, len(teams))
	for _, t := range teams {
		out = append(out, int(t))
	}
	return out
}

// encodeEvent maps a table event to its op code and payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var op int64
	var fields map[string]interface{}

	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		op = OpGameStarted
		fields = map[string]interface{}{
			"game_id":          p.GameID,
			"game_number":      p.GameNumber,
			"distributor":      p.Distributor,
			"first_to_act":     p.FirstToAct,
			"first_mover_team": int(p.FirstMoverTeam),
			"targets":          pair(p.Targets),
		}
	case app.HandDealtPayload:
		op = OpHandDealt
		fields = map[string]interface{}{
			"seat": p.Seat,
			"hand": cardList(p.Hand),
		}
	case app.CardPlayedPayload:
		op = OpCardPlayed
		fields = map[string]interface{}{
			"seat":      p.Seat,
			"card":      p.Card.String(),
			"led_suit":  string(p.LedSuit),
			"next_turn": p.NextTurn,
		}
	case app.TrumpRevealedPayload:
		op = OpTrumpRevealed
		fields = map[string]interface{}{
			"seat":       p.Seat,
			"trump_suit": string(p.TrumpSuit),
			"card":       p.Card.String(),
			"holder":     p.Holder,
		}
	case app.TrickCompletedPayload:
		op = OpTrickCompleted
		fields = map[string]interface{}{
			"trick_number": p.TrickNumber,
			"winner":       p.Winner,
			"winning_card": p.WinningCard.String(),
			"tricks_won":   pair(p.TricksWon),
		}
	case app.TrickStartedPayload:
		op = OpTrickStarted
		fields = map[string]interface{}{
			"trick_number": p.TrickNumber,
			"leader":       p.Leader,
		}
	case app.GameEndedPayload:
		op = OpGameEnded
		fields = map[string]interface{}{
			"game_id":          p.GameID,
			"winner":           int(p.Winner),
			"tricks_won":       pair(p.TricksWon),
			"gained":           p.Settlement.Gained,
			"stolen":           p.Settlement.Stolen,
			"rollover":         p.Settlement.Rollover,
			"ladder_before":    pair(p.Settlement.Before),
			"ladder":           pair(p.Settlement.After),
			"next_distributor": p.NextDistributor,
		}
	case app.BigWinPayload:
		op = OpBigWin
		fields = map[string]interface{}{
			"teams":  teamList(p.Teams),
			"ladder": pair(p.Ladder),
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	fields["kind"] = string(ev.Kind)
	data, err := marshalStruct(fields)
	if err != nil {
		return 0, nil, err
	}
	return op, data, nil
}

// seatView is the lobby information about one seat.
type seatView struct {
	UserID    string
	Username  string
	Bot       bool
	Connected bool
}

// matchView is everything a presence needs to render the table.
type matchView struct {
	Seats     [domain.NumSeats]seatView
	OwnerSeat int
	Names     config.Names
	Private   bool
	Tick      int64
	Snapshot  app.Snapshot
}

// encodeMatchState renders v for the presence sitting at seat. Only that seat's hand is
// included; seat 0 receives no hand at all.
func encodeMatchState(v matchView, seat int) ([]byte, error) {
	seats := make([]interface{}, 0, domain.NumSeats)
	for i, s := range v.Seats {
		seats = append(seats, map[string]interface{}{
			"seat":      i + 1,
			"team":      int(domain.TeamOf(i + 1)),
			"user_id":   s.UserID,
			"username":  s.Username,
			"name":      v.Names.Seat(i + 1),
			"bot":       s.Bot,
			"connected": s.Connected,
		})
	}

	return marshalStruct(map[string]interface{}{
		"seat":       seat,
		"owner_seat": v.OwnerSeat,
		"private":    v.Private,
		"tick":       v.Tick,
		"team_names": []interface{}{v.Names.Teams[0], v.Names.Teams[1]},
		"seats":      seats,
		"game":       snapshotFields(v.Snapshot, seat),
	})
}

func snapshotFields(s app.Snapshot, seat int) map[string]interface{} {
	var hand []domain.Card
	if domain.ValidSeat(seat) {
		hand = s.Hands[seat-1]
	}
	sizes := make([]interface{}, 0, domain.NumSeats)
	for _, n := range s.HandSizes {
		sizes = append(sizes, n)
	}
	plays := make([]interface{}, 0, len(s.Trick.Plays))
	for _, p := range s.Trick.Plays {
		plays = append(plays, map[string]interface{}{"seat": p.Seat, "card": p.Card.String()})
	}

	return map[string]interface{}{
		"game_id":           s.GameID,
		"game_number":       s.GameNumber,
		"phase":             string(s.Phase),
		"distributor":       s.Distributor,
		"next_distributor":  s.NextDistributor,
		"first_to_act":      s.FirstToAct,
		"first_mover_team":  int(s.FirstMoverTeam),
		"targets":           pair(s.Targets),
		"hand":              cardList(hand),
		"hand_sizes":        sizes,
		"reserve_present":   s.ReservePresent,
		"trump_suit":        string(s.TrumpSuit),
		"trump_revealed":    s.TrumpRevealed,
		"trump_revealer":    s.TrumpRevealer,
		"tricks_won":        pair(s.TricksWon),
		"last_trick_winner": s.LastTrickWinner,
		"winner":            int(s.Winner),
		"ladder":            pair(s.Ladder),
		"resolving":         s.Resolving,
		"halted":            s.Halted,
		"trick": map[string]interface{}{
			"number":               s.Trick.Number,
			"start_seat":           s.Trick.StartSeat,
			"current_turn":         s.Trick.CurrentTurn,
			"led_suit":             string(s.Trick.LedSuit),
			"complete":             s.Trick.Complete,
			"winner_seat":          s.Trick.WinnerSeat,
			"mandatory_trump_seat": s.Trick.MandatoryTrumpSeat,
			"plays":                plays,
		},
	}
}

// decodeIntent parses a client intent message.
func decodeIntent(op int64, data []byte) (app.Intent, error) {
	switch op {
	case OpPlayCard:
		msg, err := unmarshalStruct(data)
		if err != nil {
			return nil, err
		}
		id := msg.GetFields()["card"].GetStringValue()
		if id == "" {
			return nil, fmt.Errorf("%w: card is required", ErrMalformedMessage)
		}
		card, err := domain.ParseCard(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		return app.PlayCard{Card: card}, nil
	case OpRevealTrump:
		if _, err := unmarshalStruct(data); err != nil {
			return nil, err
		}
		return app.RevealTrump{}, nil
	}
	return nil, fmt.Errorf("%w: op code %d is not an intent", ErrMalformedMessage, op)
}

// decodeNames parses an OpConfigureNames message: {"teams": [...], "seats": [...]}.
func decodeNames(data []byte) (config.NamesUpdate, error) {
	var u config.NamesUpdate
	msg, err := unmarshalStruct(data)
	if err != nil {
		return u, err
	}
	teams, err := stringList(msg, "teams", len(u.Teams))
	if err != nil {
		return u, err
	}
	copy(u.Teams[:], teams)
	seats, err := stringList(msg, "seats", len(u.Seats))
	if err != nil {
		return u, err
	}
	copy(u.Seats[:], seats)
	return u, nil
}

func stringList(msg *structpb.Struct, key string, limit int) ([]string, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %s must be a list", ErrMalformedMessage, key)
	}
	if len(list.GetValues()) > limit {
		return nil, fmt.Errorf("%w: %s has more than %d entries", ErrMalformedMessage, key, limit)
	}
	out := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s entries must be strings", ErrMalformedMessage, key)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

func encodeRejection(code int, reason string) ([]byte, error) {
	return marshalStruct(map[string]interface{}{
		"code":    code,
		"message": reason,
	})
}

func encodeHalt(reason string) ([]byte, error) {
	return marshalStruct(map[string]interface{}{
		"message": reason,
	})
}

// encodeLabel renders the match label queried by quick_match.
func encodeLabel(open int, state string, private bool) (string, error) {
	data, err := marshalStruct(map[string]interface{}{
		"open":    open,
		"game":    GameLabel,
		"state":   state,
		"private": private,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
