package db

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLiteOpts struct {
	BusyTimeout time.Duration
	PingTimeout time.Duration
}

// NewSQLiteConnection opens a *sqlx.DB on the given file with WAL and a busy timeout.
func NewSQLiteConnection(path string, opts SQLiteOpts) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+strconv.Itoa(int(busy.Milliseconds()))+")")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	dsn := "file:" + path + "?" + q.Encode()

	sqlDB, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite serializes writers; a single connection avoids database-locked errors
	sqlDB.SetMaxOpenConns(1)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}
