package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/storage"
)

var configFile string

func main() {
	// Optional .env next to the binary
	_ = godotenv.Load()

	// Setup logging until the config says otherwise
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	rootCmd := &cobra.Command{
		Use:           "pg-server",
		Short:         "PG management server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/pg-server.yml", "Configuration file path")

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		sweepCmd(),
		createAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults plus environment
// when the file does not exist, and applies the log settings.
func loadConfig() (*config.Config, error) {
	file := configFile
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("file", file).Msg("Config file not found, using defaults and environment")
		file = ""
	}

	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}

	setupLogging(cfg.Log)
	return cfg, nil
}

func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func openStore(cfg *config.Config) (*storage.PostgresStore, error) {
	store, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info().Msg("Connected to database")
	return store, nil
}
