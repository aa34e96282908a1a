package nakama

import (
	"context"
	"database/sql"

	"supersuit/internal/app"
	"supersuit/internal/bot"
	"supersuit/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const botIdentitiesPath = "data/bot_identities.json"

// InitModule wires RPCs, hooks and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(config.DefaultGameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg = cfg.WithEnv(env)
	}

	var invites *app.InviteService
	if cfg.InviteSecret != "" {
		invites = app.NewInviteService(cfg.InviteSecret, cfg.InviteIssuer, cfg.InviteTTL())
	} else {
		logger.Warn("InitModule: %s not set, private tables disabled.", config.EnvInviteSecret)
	}

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else if cfg.BotsEnabled {
		if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
			logger.Warn("InitModule: Could not provision bots: %v", err)
		}
	}

	if err := RegisterRPCs(initializer, cfg, invites); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchName, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(cfg, invites), nil
	}); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Supersuit Go module loaded (bots=%t, trump_timing=%s).", cfg.BotsEnabled, cfg.TrumpTiming)
	return nil
}
