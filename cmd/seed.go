package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/policydesk/polgw/internal/config"
	"github.com/policydesk/polgw/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers and policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewSQLiteConnection(cfg.SQLite.Path, db.SQLiteOpts{
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("sqlite open: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo customers and policies...")

		if err := seedDemoData(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed ✅")
		return nil
	},
}

type demoRow struct {
	name         string
	phone        string
	email        string
	policyNumber string
	policyType   string
	expiryOffset int // days from today; negative means already expired
}

// seedDemoData inserts deterministic demo rows (idempotent). Expiries
// sit on the reminder offsets so a sweep right after seeding fires.
func seedDemoData(dbx *sqlx.DB) error {
	rows := []demoRow{
		{"Asha Verma", "+919876500001", "asha@example.com", "POL-1001", "Motor", 7},
		{"Ravi Iyer", "+919876500002", "ravi@example.com", "POL-1002", "Health", 15},
		{"Meera Nair", "+919876500003", "", "POL-1003", "Life", 30},
		{"Sunil Rao", "+919876500004", "sunil@example.com", "POL-1004", "Motor", 90},
		{"Priya Desai", "+919876500005", "", "POL-1005", "General", -10},
	}

	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	today := time.Now()
	for _, r := range rows {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO customers (name, phone, email) VALUES (?, ?, ?)
		`, r.name, r.phone, r.email); err != nil {
			return fmt.Errorf("insert customer %q: %w", r.name, err)
		}

		var customerID int64
		if err := tx.Get(&customerID, `SELECT id FROM customers WHERE phone = ?`, r.phone); err != nil {
			return fmt.Errorf("resolve customer %q: %w", r.name, err)
		}

		expiry := today.AddDate(0, 0, r.expiryOffset).Format("2006-01-02")
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO policies (customer_id, policy_number, policy_type, expiry_date)
			VALUES (?, ?, ?, ?)
		`, customerID, r.policyNumber, r.policyType, expiry); err != nil {
			return fmt.Errorf("insert policy %q: %w", r.policyNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
