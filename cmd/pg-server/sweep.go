package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pg-management/pg-server/internal/models"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sweep [lease|payments|all]",
		Short:     "Run the reminder sweeps once and print their events",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"lease", "payments", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := buildServices(cfg, store, nil)
			defer svc.Close()

			ctx := cmd.Context()
			out := map[string][]models.SweepEvent{}
			if target == "lease" || target == "all" {
				out["lease"] = svc.reminders.TriggerLeaseSweep(ctx)
			}
			if target == "payments" || target == "all" {
				out["payments"] = svc.reminders.TriggerPaymentSweep(ctx)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode events: %w", err)
			}
			return nil
		},
	}
}
