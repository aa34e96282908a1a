package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supersuit/internal/domain"
	"supersuit/internal/logging"
)

func TestRunSession(t *testing.T) {
	levels, err := parseLevels("hard,medium,easy,hard,medium,easy")
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := runSession(sessionOptions{
		Games:  40,
		Seed:   11,
		Levels: levels,
		Rules:  domain.DefaultRules(),
	}, logging.New(&out, "info"))
	require.NoError(t, err)

	assert.Equal(t, 40, res.Games)
	assert.Equal(t, 40, res.Wins[0]+res.Wins[1])
	for _, p := range res.Ladder {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, domain.LadderSize)
	}
}

func TestRunSessionAfterRevealerTiming(t *testing.T) {
	levels, err := parseLevels("easy")
	require.NoError(t, err)

	_, err = runSession(sessionOptions{
		Games:  20,
		Seed:   3,
		Levels: levels,
		Rules:  domain.Rules{TrumpTiming: domain.TrumpAfterRevealer},
	}, logging.New(&bytes.Buffer{}, "error"))
	require.NoError(t, err)
}

func TestParseLevels(t *testing.T) {
	levels, err := parseLevels("hard")
	require.NoError(t, err)
	for _, l := range levels {
		assert.Equal(t, "hard", l)
	}

	_, err = parseLevels("easy,hard")
	assert.Error(t, err)
}

func TestRootCommandRejectsUnknownLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--games", "1", "--levels", "godlike", "--env-file", "", "--config", "missing.json"})
	assert.Error(t, cmd.Execute())
}

func TestRootCommandPlays(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--games", "3", "--seed", "5", "--env-file", "", "--config", "../../data/table_config.json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "won")
}
