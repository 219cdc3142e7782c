package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pg-management/pg-server/internal/api"
	"github.com/pg-management/pg-server/internal/metrics"
	"github.com/pg-management/pg-server/internal/server"
)

func serveCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret (or JWT_SECRET) must be set to serve the API")
			}
			cfg.PrintConfigSummary()

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			// Create context
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if autoMigrate {
				applied, err := store.Migrate(ctx)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				for _, m := range applied {
					log.Info().Str("migration", m).Msg("Applied migration")
				}
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.NewMetrics(reg)

			svc := buildServices(cfg, store, m)
			defer svc.Close()

			apiServer := api.NewRESTServer(cfg, store, svc.reminders, m)

			// WaitGroup for services
			var wg sync.WaitGroup

			// Start API server
			wg.Add(1)
			go func() {
				defer wg.Done()
				addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
				if err := apiServer.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("REST API server failed")
					cancel()
				}
			}()

			// Reminder loop
			if cfg.Reminder.Enabled {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := svc.reminders.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error().Err(err).Msg("Reminder loop stopped")
					}
				}()
			} else {
				log.Info().Msg("Reminder loop disabled, sweeps run on demand only")
			}

			// On-demand triggers over NATS
			if svc.nc != nil {
				subscriber := server.NewNATSSubscriber(svc.nc, svc.reminders, cfg.NATS.SubjectPrefix)

				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := subscriber.Start(ctx); err != nil {
						log.Error().Err(err).Msg("NATS subscriber stopped")
					}
				}()
			}

			// Wait for signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigChan:
				log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
			case <-ctx.Done():
			}

			// Cancel context
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := apiServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
			}

			// Wait for all services
			wg.Wait()

			log.Info().Msg("PG server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Apply pending schema migrations on start")
	return cmd
}
