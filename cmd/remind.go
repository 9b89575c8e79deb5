package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/policydesk/polgw/internal/config"
	"github.com/policydesk/polgw/internal/db"
	"github.com/policydesk/polgw/internal/logger"
	"github.com/policydesk/polgw/internal/reminder"
	"github.com/policydesk/polgw/internal/repository"
	"github.com/policydesk/polgw/internal/whatsapp"
)

// remindCmd runs one sweep from the shell; cron-friendly alternative to
// POST /api/trigger-reminders.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder sweep and print per-policy outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)

		sqlDB, err := db.NewSQLiteConnection(cfg.SQLite.Path, db.SQLiteOpts{
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("sqlite open: %w", err)
		}
		defer sqlDB.Close()

		sweeper := reminder.NewSweeper(
			repository.NewPoliciesRepository(sqlDB),
			repository.NewRemindersRepository(sqlDB),
			whatsapp.NewClient(cfg.WhatsApp),
			cfg.Reminder.Offsets,
			cfg.Reminder.Template,
		)

		results, err := sweeper.Run(context.Background())
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}

		for _, r := range results {
			fmt.Printf("%s\tdays=%d\t%s\n", r.PolicyNumber, r.Days, r.Status)
		}
		fmt.Printf(">> %d reminder(s) dispatched\n", len(results))
		return nil
	},
}
