package nakama

import (
	"context"
	"database/sql"

	"truco/internal/bot"
	"truco/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities, using built-in pool: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Bot provisioning failed: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameTruco, NewMatch); err != nil {
		return err
	}

	logger.Info("Truco Go module loaded.")
	return nil
}
