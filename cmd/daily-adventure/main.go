package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/config"
	"github.com/i474232898/daily-adventure/internal/logging"
)

var (
	cfg    *config.AppConfig
	logger *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "daily-adventure",
		Short:         "Generates a weather- and event-aware adventure suggestion every day",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envErr := godotenv.Load()

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger, err = logging.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			if envErr != nil {
				logger.Debug("no .env file loaded", zap.Error(envErr))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
