package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"supersuit/internal/app"
	"supersuit/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// CreateTableResponse is returned by create_table. Invite must be sent as the "invite"
// join metadata by everyone joining the table, the creator included.
type CreateTableResponse struct {
	MatchID string `json:"match_id"`
	Invite  string `json:"invite"`
}

// rpcs carries what the RPC endpoints share with the match handler.
type rpcs struct {
	cfg     config.GameConfig
	invites *app.InviteService
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, cfg config.GameConfig, invites *app.InviteService) error {
	r := &rpcs{cfg: cfg, invites: invites}
	if err := initializer.RegisterRpc(RpcQuickMatch, r.quickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcCreateTable, r.createTable)
}

func quickMatchQuery() string {
	return fmt.Sprintf("+label.game:%s +label.state:%s +label.private:F +label.open:>=1", GameLabel, labelLobby)
}

func (r *rpcs) quickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 5 // at least one seat left

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery())
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", runtime.NewError("failed to list matches", 13)
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Info("QuickMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		// Seat/owner assignment happens in MatchJoin (server-authoritative).
		matchID, err := nk.MatchCreate(ctx, MatchName, map[string]interface{}{})
		if err != nil {
			logger.Error("QuickMatch [User:%s]: MatchCreate error: %v", userID, err)
			return "", runtime.NewError("failed to create match", 13)
		}
		resp = QuickMatchResponse{MatchID: matchID, IsNew: true}
		logger.Info("QuickMatch [User:%s]: Created new match %s", userID, matchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("failed to encode response", 13)
	}
	return string(b), nil
}

func (r *rpcs) createTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("user session required", 7)
	}
	if r.invites == nil {
		return "", runtime.NewError("private tables are not enabled", 5)
	}

	matchID, err := nk.MatchCreate(ctx, MatchName, map[string]interface{}{"private": true})
	if err != nil {
		logger.Error("CreateTable [User:%s]: MatchCreate error: %v", userID, err)
		return "", runtime.NewError("failed to create match", 13)
	}
	token, err := r.invites.Issue(matchID, userID)
	if err != nil {
		logger.Error("CreateTable [User:%s]: Failed to issue invite: %v", userID, err)
		return "", runtime.NewError("failed to issue invite", 13)
	}
	logger.Info("CreateTable [User:%s]: Created private match %s (invite ttl %s)", userID, matchID, r.cfg.InviteTTL())

	b, err := json.Marshal(CreateTableResponse{MatchID: matchID, Invite: token})
	if err != nil {
		return "", runtime.NewError("failed to encode response", 13)
	}
	return string(b), nil
}
