//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

func baseURL() string {
	return fmt.Sprintf("http://%s:%d", Host, Port)
}

// MatchData is a match_data message received on the realtime socket.
type MatchData struct {
	MatchID string `json:"match_id"`
	OpCode  int64  `json:"op_code,string"`
	Data    []byte `json:"data"`
}

// Payload decodes the JSON body of the message.
func (m MatchData) Payload(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(m.Data, &out); err != nil {
		t.Fatalf("op %d: payload is not JSON: %v", m.OpCode, err)
	}
	return out
}

type envelope struct {
	CID           string          `json:"cid,omitempty"`
	MatchJoin     *matchJoin      `json:"match_join,omitempty"`
	MatchDataSend *matchDataSend  `json:"match_data_send,omitempty"`
	MatchData     *MatchData      `json:"match_data,omitempty"`
	Match         json.RawMessage `json:"match,omitempty"`
	Error         json.RawMessage `json:"error,omitempty"`
}

type matchJoin struct {
	MatchID  string            `json:"match_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type matchDataSend struct {
	MatchID string `json:"match_id"`
	OpCode  int64  `json:"op_code,string"`
	Data    []byte `json:"data,omitempty"`
}

type TestClient struct {
	Token  string
	UserID string
	conn   *websocket.Conn

	mu      sync.Mutex
	cid     int
	inbox   []MatchData
	replies map[string]chan envelope
	notify  chan struct{}
}

// NewTestClient authenticates a fresh device account and opens a realtime socket.
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deviceID := fmt.Sprintf("supersuit_test_device_%d", time.Now().UnixNano())
	body, _ := json.Marshal(map[string]string{"id": deviceID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+"/v2/account/authenticate/device?create=true", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build auth request: %v", err)
	}
	req.SetBasicAuth(ServerKey, "")
	var session struct {
		Token string `json:"token"`
	}
	doJSON(t, req, &session)

	conn, _, err := websocket.Dial(ctx, fmt.Sprintf("ws://%s:%d/ws?status=true&token=%s", Host, Port, session.Token), nil)
	if err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	conn.SetReadLimit(1 << 20)

	tc := &TestClient{
		Token:   session.Token,
		conn:    conn,
		replies: make(map[string]chan envelope),
		notify:  make(chan struct{}, 1),
	}
	go tc.readLoop()
	return tc
}

func doJSON(t *testing.T, req *http.Request, out interface{}) {
	t.Helper()
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("%s %s: bad response: %v", req.Method, req.URL.Path, err)
	}
}

func (tc *TestClient) readLoop() {
	for {
		var env envelope
		if err := wsjson.Read(context.Background(), tc.conn, &env); err != nil {
			return
		}
		tc.mu.Lock()
		if ch, ok := tc.replies[env.CID]; ok && env.CID != "" {
			delete(tc.replies, env.CID)
			ch <- env
		}
		if env.MatchData != nil {
			tc.inbox = append(tc.inbox, *env.MatchData)
			select {
			case tc.notify <- struct{}{}:
			default:
			}
		}
		tc.mu.Unlock()
	}
}

func (tc *TestClient) Close() {
	tc.conn.Close(websocket.StatusNormalClosure, "")
}

// RPC calls a registered RPC with a JSON payload and decodes the JSON result into out.
func (tc *TestClient) RPC(t *testing.T, id string, payload interface{}, out interface{}) {
	t.Helper()
	inner, _ := json.Marshal(payload)
	body, _ := json.Marshal(string(inner))
	req, err := http.NewRequest(http.MethodPost, baseURL()+"/v2/rpc/"+id, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build RPC request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tc.Token)
	var resp struct {
		Payload string `json:"payload"`
	}
	doJSON(t, req, &resp)
	if err := json.Unmarshal([]byte(resp.Payload), out); err != nil {
		t.Fatalf("RPC %s returned %q: %v", id, resp.Payload, err)
	}
}

// JoinMatch joins matchID, passing invite as join metadata when set.
func (tc *TestClient) JoinMatch(t *testing.T, matchID, invite string) {
	t.Helper()
	join := &matchJoin{MatchID: matchID}
	if invite != "" {
		join.Metadata = map[string]string{"invite": invite}
	}
	reply := tc.request(t, envelope{MatchJoin: join})
	if len(reply.Error) > 0 {
		t.Fatalf("Failed to join match %s: %s", matchID, reply.Error)
	}
}

func (tc *TestClient) request(t *testing.T, env envelope) envelope {
	t.Helper()
	tc.mu.Lock()
	tc.cid++
	env.CID = strconv.Itoa(tc.cid)
	ch := make(chan envelope, 1)
	tc.replies[env.CID] = ch
	tc.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, tc.conn, env); err != nil {
		t.Fatalf("socket write failed: %v", err)
	}
	select {
	case reply := <-ch:
		return reply
	case <-ctx.Done():
		t.Fatalf("timeout waiting for reply %s", env.CID)
		return envelope{}
	}
}

// Send sends a match message; data is JSON-encoded.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, data interface{}) {
	t.Helper()
	payload, _ := json.Marshal(data)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := wsjson.Write(ctx, tc.conn, envelope{MatchDataSend: &matchDataSend{MatchID: matchID, OpCode: opCode, Data: payload}})
	if err != nil {
		t.Fatalf("Failed to send op %d: %v", opCode, err)
	}
}

// WaitFor returns the first received message with opCode, consuming it.
func (tc *TestClient) WaitFor(t *testing.T, opCode int64, timeout time.Duration) MatchData {
	t.Helper()
	deadline := time.After(timeout)
	for {
		tc.mu.Lock()
		for i, m := range tc.inbox {
			if m.OpCode == opCode {
				tc.inbox = append(tc.inbox[:i], tc.inbox[i+1:]...)
				tc.mu.Unlock()
				return m
			}
		}
		tc.mu.Unlock()

		select {
		case <-tc.notify:
		case <-deadline:
			t.Fatalf("Timeout waiting for OpCode %d", opCode)
			return MatchData{}
		}
	}
}
