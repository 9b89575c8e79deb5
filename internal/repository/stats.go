package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PolicyCounts are the dashboard headline numbers.
type PolicyCounts struct {
	TotalPolicies int `db:"-"`
	ExpiringSoon  int `db:"-"` // within the next 30 days, not yet expired
	ExpiredCount  int `db:"-"`
}

type StatsRepository interface {
	Counts(ctx context.Context) (PolicyCounts, error)
}

type StatsRepositoryImpl struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{db: db}
}

var _ StatsRepository = (*StatsRepositoryImpl)(nil)

func (r *StatsRepositoryImpl) Counts(ctx context.Context) (PolicyCounts, error) {
	var pc PolicyCounts

	if err := r.db.GetContext(ctx, &pc.TotalPolicies,
		`SELECT COUNT(*) FROM policies`); err != nil {
		return pc, err
	}

	if err := r.db.GetContext(ctx, &pc.ExpiringSoon, `
		SELECT COUNT(*) FROM policies
		 WHERE date(expiry_date) <= date('now', '+30 days')
		   AND date(expiry_date) >= date('now')
	`); err != nil {
		return pc, err
	}

	if err := r.db.GetContext(ctx, &pc.ExpiredCount, `
		SELECT COUNT(*) FROM policies
		 WHERE date(expiry_date) < date('now')
	`); err != nil {
		return pc, err
	}

	return pc, nil
}
