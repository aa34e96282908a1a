//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	opStartGame    = 1
	opPlayCard     = 2
	opMatchState   = 101
	opHandDealt    = 102
	opGameStarted  = 107
	opIntentReject = 110
	numSeats       = 6
	eventTimeout   = 5 * time.Second
)

func TestPrivateTableFullGameStart(t *testing.T) {
	clients := make([]*TestClient, numSeats)
	for i := range clients {
		clients[i] = NewTestClient(t)
		defer clients[i].Close()
	}

	var table struct {
		MatchID string `json:"match_id"`
		Invite  string `json:"invite"`
	}
	clients[0].RPC(t, "create_table", map[string]string{}, &table)
	require.NotEmpty(t, table.MatchID)
	require.NotEmpty(t, table.Invite)

	for _, c := range clients {
		c.JoinMatch(t, table.MatchID, table.Invite)
	}

	state := clients[0].WaitFor(t, opMatchState, eventTimeout).Payload(t)
	assert.EqualValues(t, 1, state["seat"])
	assert.EqualValues(t, 1, state["owner_seat"])

	// Playing before the deal is refused, privately.
	clients[1].Send(t, table.MatchID, opPlayCard, map[string]string{"card": "A-spades"})
	rejection := clients[1].WaitFor(t, opIntentReject, eventTimeout).Payload(t)
	assert.NotEmpty(t, rejection["message"])

	clients[0].Send(t, table.MatchID, opStartGame, map[string]string{})

	cards := 0
	for i, c := range clients {
		started := c.WaitFor(t, opGameStarted, eventTimeout).Payload(t)
		assert.Len(t, started["targets"], 2, "client %d", i)

		hand := c.WaitFor(t, opHandDealt, eventTimeout).Payload(t)
		held, ok := hand["hand"].([]interface{})
		require.True(t, ok, "client %d hand", i)
		assert.Contains(t, []int{7, 8}, len(held), "client %d hand size", i)
		cards += len(held)
	}
	assert.Equal(t, 47, cards, "one card is set aside as the reserve")
}

func TestQuickMatchReturnsJoinableLobby(t *testing.T) {
	c := NewTestClient(t)
	defer c.Close()

	var resp struct {
		MatchID string `json:"match_id"`
		IsNew   bool   `json:"is_new"`
	}
	c.RPC(t, "quick_match", map[string]string{}, &resp)
	require.NotEmpty(t, resp.MatchID)

	c.JoinMatch(t, resp.MatchID, "")
	state := c.WaitFor(t, opMatchState, eventTimeout).Payload(t)
	assert.NotZero(t, state["seat"])
}
