package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"supersuit/internal/domain"
)

// Environment keys read from the Nakama runtime env (or a .env file for the simulator).
const (
	EnvBotsEnabled          = "supersuit_bots_enabled"
	EnvBotMinDelaySec       = "supersuit_bot_min_delay_sec"
	EnvBotMaxDelaySec       = "supersuit_bot_max_delay_sec"
	EnvBotAutoFillDelaySec  = "supersuit_bot_auto_fill_delay_sec"
	EnvTrickDelayMillis     = "supersuit_trick_delay_ms"
	EnvTrumpTiming          = "supersuit_trump_timing"
	EnvInviteSecret         = "supersuit_invite_secret"
	DefaultGameConfigPath   = "data/table_config.json"
	defaultTrickDelayMillis = 1000
)

type GameConfig struct {
	TrickDelayMillis int    `json:"trick_delay_ms"`
	TrumpTiming      string `json:"trump_timing"`
	BotsEnabled      bool   `json:"bots_enabled"`
	BotMinDelay      int    `json:"bot_min_delay_seconds"`
	BotMaxDelay      int    `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how long a lobby waits before empty seats get bots.
	BotAutoFillDelaySeconds int       `json:"bot_auto_fill_delay_seconds"`
	TeamNames               [2]string `json:"team_names"`
	InviteIssuer            string    `json:"invite_issuer"`
	InviteTTLMinutes        int       `json:"invite_ttl_minutes"`
	// InviteSecret only comes from the environment.
	InviteSecret string `json:"-"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if _, err := domain.ParseTrumpTiming(c.TrumpTiming); err != nil {
			loadErr = fmt.Errorf("invalid game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults when nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Default returns the built-in configuration.
func Default() GameConfig {
	return GameConfig{
		TrickDelayMillis:        defaultTrickDelayMillis,
		TrumpTiming:             string(domain.TrumpFromRevealer),
		BotMinDelay:             1,
		BotMaxDelay:             3,
		BotAutoFillDelaySeconds: 5,
		TeamNames:               [2]string{"Team 1", "Team 2"},
		InviteIssuer:            "supersuit",
		InviteTTLMinutes:        120,
	}
}

// WithEnv returns c with the environment overrides applied. Unparseable values are ignored.
func (c GameConfig) WithEnv(env map[string]string) GameConfig {
	if val, ok := env[EnvBotsEnabled]; ok {
		c.BotsEnabled = val == "true"
	}
	if val, ok := env[EnvBotMinDelaySec]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.BotMinDelay = i
		}
	}
	if val, ok := env[EnvBotMaxDelaySec]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.BotMaxDelay = i
		}
	}
	if val, ok := env[EnvBotAutoFillDelaySec]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.BotAutoFillDelaySeconds = i
		}
	}
	if val, ok := env[EnvTrickDelayMillis]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.TrickDelayMillis = i
		}
	}
	if val, ok := env[EnvTrumpTiming]; ok {
		if _, err := domain.ParseTrumpTiming(val); err == nil {
			c.TrumpTiming = val
		}
	}
	if val, ok := env[EnvInviteSecret]; ok {
		c.InviteSecret = val
	}

	if c.BotMinDelay < 0 {
		c.BotMinDelay = 0
	}
	if c.BotMaxDelay < c.BotMinDelay {
		c.BotMaxDelay = c.BotMinDelay
	}
	return c
}

// TrickDelay is the display delay between a completed trick and the next one.
func (c GameConfig) TrickDelay() time.Duration {
	if c.TrickDelayMillis <= 0 {
		return defaultTrickDelayMillis * time.Millisecond
	}
	return time.Duration(c.TrickDelayMillis) * time.Millisecond
}

// InviteTTL is the lifetime of private-table invite tokens.
func (c GameConfig) InviteTTL() time.Duration {
	return time.Duration(c.InviteTTLMinutes) * time.Minute
}

// Rules returns the rule variant the configuration selects.
func (c GameConfig) Rules() domain.Rules {
	timing, err := domain.ParseTrumpTiming(c.TrumpTiming)
	if err != nil {
		return domain.DefaultRules()
	}
	return domain.Rules{TrumpTiming: timing}
}
