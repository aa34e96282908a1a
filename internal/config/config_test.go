package config

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supersuit/internal/domain"
)

func resetLoaded() {
	cfg, loadErr, loadOnce = nil, nil, sync.Once{}
}

func TestLoadGameConfig(t *testing.T) {
	resetLoaded()
	t.Cleanup(resetLoaded)

	require.NoError(t, LoadGameConfig("testdata/table_config.json"))
	c := GetGameConfig()
	assert.Equal(t, 2500*time.Millisecond, c.TrickDelay())
	assert.Equal(t, domain.Rules{TrumpTiming: domain.TrumpAfterRevealer}, c.Rules())
	assert.True(t, c.BotsEnabled)
	assert.Equal(t, 2, c.BotMinDelay)
	// Unset keys keep their defaults.
	assert.Equal(t, 3, c.BotMaxDelay)
	assert.Equal(t, 5, c.BotAutoFillDelaySeconds)
	assert.Equal(t, [2]string{"Red", "Blue"}, c.TeamNames)

	// Later loads are no-ops.
	require.NoError(t, LoadGameConfig("testdata/missing.json"))
}

func TestLoadGameConfigMissingFile(t *testing.T) {
	resetLoaded()
	t.Cleanup(resetLoaded)

	assert.Error(t, LoadGameConfig("testdata/missing.json"))
	assert.Equal(t, Default(), GetGameConfig())
}

func TestWithEnv(t *testing.T) {
	c := Default().WithEnv(map[string]string{
		EnvBotsEnabled:         "true",
		EnvBotMinDelaySec:      "4",
		EnvBotMaxDelaySec:      "2",
		EnvBotAutoFillDelaySec: "oops",
		EnvTrickDelayMillis:    "300",
		EnvTrumpTiming:         "after_revealer",
		EnvInviteSecret:        "s3cret",
	})
	assert.True(t, c.BotsEnabled)
	assert.Equal(t, 4, c.BotMinDelay)
	assert.Equal(t, 4, c.BotMaxDelay, "max delay is raised to the min delay")
	assert.Equal(t, 5, c.BotAutoFillDelaySeconds, "unparseable values are ignored")
	assert.Equal(t, 300*time.Millisecond, c.TrickDelay())
	assert.Equal(t, domain.TrumpAfterRevealer, c.Rules().TrumpTiming)
	assert.Equal(t, "s3cret", c.InviteSecret)

	c = Default().WithEnv(map[string]string{EnvTrumpTiming: "sometimes"})
	assert.Equal(t, domain.TrumpFromRevealer, c.Rules().TrumpTiming)
	assert.Equal(t, 2*time.Hour, c.InviteTTL())
}

func TestNamesApply(t *testing.T) {
	n := DefaultNames(Default())
	assert.Equal(t, "Team 1", n.Team(domain.Team1))
	assert.Equal(t, "Player 6", n.Seat(6))
	assert.Empty(t, n.Seat(7))

	require.NoError(t, n.Apply(NamesUpdate{
		Teams: [2]string{"  Hawks ", ""},
		Seats: [domain.NumSeats]string{"Ana", "", "", "Bo"},
	}))
	assert.Equal(t, "Hawks", n.Team(domain.Team1))
	assert.Equal(t, "Team 2", n.Team(domain.Team2))
	assert.Equal(t, "Ana", n.Seat(1))
	assert.Equal(t, "Player 2", n.Seat(2))
	assert.Equal(t, "Bo", n.Seat(4))

	before := n
	err := n.Apply(NamesUpdate{
		Teams: [2]string{"Fine"},
		Seats: [domain.NumSeats]string{"a name that is far too long to fit"},
	})
	assert.Error(t, err)
	assert.Equal(t, before, n, "a rejected update changes nothing")

	assert.Error(t, n.Apply(NamesUpdate{Teams: [2]string{"bad\x00name"}}))
}
