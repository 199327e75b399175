package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trading-journal/internal/api"
	"trading-journal/internal/coach"
	"trading-journal/internal/config"
	"trading-journal/internal/journal"
	"trading-journal/internal/logging"
	"trading-journal/internal/settings"
	"trading-journal/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Start the journal API server and serve until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			logCfg := logging.DefaultLogConfig()
			logCfg.Level = cfg.Log.Level
			logger := logging.NewLoggerWithConfig(logCfg)

			dataStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
			if err != nil {
				return err
			}
			defer dataStore.Close()
			logger.Debug().Str("path", cfg.Store.DBPath).Msg("SQLite store initialized")

			coachClient := coach.NewOpenAIClient(cfg.Coach.APIKey, cfg.Coach.BaseURL, cfg.Coach.Model)
			logger.Debug().Str("model", cfg.Coach.Model).Msg("AI coach client initialized")

			service := journal.NewService(dataStore, coachClient, logger)
			themes := settings.NewThemeStore(cfg.Store.ThemePath)
			server := api.NewServer(service, themes, logger, cfg.Server.AllowedOrigins)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx, cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info().Msg("Server stopped")
			return nil
		},
	}
}
