package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"supersuit/internal/app"
	"supersuit/internal/config"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// fakeNakama implements the NakamaModule calls the RPCs make.
type fakeNakama struct {
	runtime.NakamaModule
	matches     []*api.Match
	listErr     error
	lastQuery   string
	created     []map[string]interface{}
	createdName string
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	return f.matches, f.listErr
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.createdName = module
	f.created = append(f.created, params)
	return "match-new", nil
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestQuickMatch(t *testing.T) {
	r := &rpcs{cfg: config.Default()}

	t.Run("JoinsExistingLobby", func(t *testing.T) {
		nk := &fakeNakama{matches: []*api.Match{{MatchId: "match-open"}}}
		out, err := r.quickMatch(userCtx("user-1"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("quickMatch failed: %v", err)
		}
		var resp QuickMatchResponse
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("bad response %q: %v", out, err)
		}
		if resp.MatchID != "match-open" || resp.IsNew {
			t.Fatalf("unexpected response %+v", resp)
		}
		if nk.lastQuery != quickMatchQuery() {
			t.Fatalf("query = %q", nk.lastQuery)
		}
	})

	t.Run("CreatesWhenNoneOpen", func(t *testing.T) {
		nk := &fakeNakama{}
		out, err := r.quickMatch(userCtx("user-1"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("quickMatch failed: %v", err)
		}
		var resp QuickMatchResponse
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("bad response %q: %v", out, err)
		}
		if resp.MatchID != "match-new" || !resp.IsNew || nk.createdName != MatchName {
			t.Fatalf("unexpected response %+v (module %s)", resp, nk.createdName)
		}
	})

	t.Run("ListError", func(t *testing.T) {
		nk := &fakeNakama{listErr: errors.New("db down")}
		if _, err := r.quickMatch(userCtx("user-1"), noopLogger{}, nil, nk, ""); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestCreateTable(t *testing.T) {
	invites := app.NewInviteService("secret", "supersuit", time.Hour)
	r := &rpcs{cfg: config.Default(), invites: invites}
	nk := &fakeNakama{}

	out, err := r.createTable(userCtx("owner-1"), noopLogger{}, nil, nk, "{}")
	if err != nil {
		t.Fatalf("createTable failed: %v", err)
	}
	var resp CreateTableResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response %q: %v", out, err)
	}
	if resp.MatchID != "match-new" {
		t.Fatalf("MatchID = %q", resp.MatchID)
	}
	if private, _ := nk.created[0]["private"].(bool); !private {
		t.Fatal("table was not created private")
	}
	claims, err := invites.Verify(resp.Invite, resp.MatchID)
	if err != nil {
		t.Fatalf("invite does not verify: %v", err)
	}
	if claims.Subject != "owner-1" {
		t.Fatalf("Subject = %q", claims.Subject)
	}

	if _, err := r.createTable(context.Background(), noopLogger{}, nil, nk, ""); err == nil {
		t.Fatal("expected error without a user session")
	}
	if _, err := (&rpcs{}).createTable(userCtx("owner-1"), noopLogger{}, nil, nk, ""); err == nil {
		t.Fatal("expected error without an invite secret")
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "user-42"}).SignedString([]byte("server"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	uid, err := extractUserIDFromToken(token)
	if err != nil || uid != "user-42" {
		t.Fatalf("extractUserIDFromToken() = %q, %v", uid, err)
	}

	missing, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("server"))
	for _, bad := range []string{"", "not-a-token", missing} {
		if _, err := extractUserIDFromToken(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
