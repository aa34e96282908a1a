// Command simulate plays whole sessions with bots at every seat and reports the ladder.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"supersuit/internal/config"
	"supersuit/internal/domain"
	"supersuit/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		games      int
		seed       int64
		levels     string
		configPath string
		envFile    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:          "simulate",
		Short:        "Play bot-only sessions against the table engine",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.OutOrStdout(), logLevel)

			if err := config.LoadGameConfig(configPath); err != nil {
				logger.Warn("Could not load game config, using defaults: %v", err)
			}
			cfg := config.GetGameConfig()
			if envFile != "" {
				env, err := godotenv.Read(envFile)
				switch {
				case err == nil:
					cfg = cfg.WithEnv(env)
				case os.IsNotExist(err):
					logger.Debug("No env file at %s", envFile)
				default:
					return fmt.Errorf("failed to read env file: %w", err)
				}
			}

			seats, err := parseLevels(levels)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			res, err := runSession(sessionOptions{
				Games:  games,
				Seed:   seed,
				Levels: seats,
				Rules:  cfg.Rules(),
			}, logger)
			if err != nil {
				return err
			}

			names := config.DefaultNames(cfg)
			logger.WithFields(map[string]interface{}{
				"seed":     seed,
				"games":    res.Games,
				"big_wins": res.BigWins,
			}).Info("%s won %d, %s won %d; ladder %d-%d",
				names.Team(domain.Team1), res.Wins[0], names.Team(domain.Team2), res.Wins[1],
				res.Ladder[0], res.Ladder[1])
			return nil
		},
	}

	cmd.Flags().IntVarP(&games, "games", "n", 100, "number of games to play")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&levels, "levels", "hard,medium,easy,hard,medium,easy", "comma-separated bot level per seat, or a single level for all")
	cmd.Flags().StringVar(&configPath, "config", config.DefaultGameConfigPath, "table config file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional file with supersuit_* overrides")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	return cmd
}

func parseLevels(s string) ([domain.NumSeats]string, error) {
	var out [domain.NumSeats]string
	parts := strings.Split(s, ",")
	switch len(parts) {
	case 1:
		for i := range out {
			out[i] = strings.TrimSpace(parts[0])
		}
	case domain.NumSeats:
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
	default:
		return out, fmt.Errorf("--levels needs 1 or %d entries, got %d", domain.NumSeats, len(parts))
	}
	return out, nil
}
