package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type CampaignsRepository interface {
	Insert(ctx context.Context, name, message string, totalRecipients int, status string) error
}

type CampaignsRepositoryImpl struct {
	db *sqlx.DB
}

func NewCampaignsRepository(db *sqlx.DB) *CampaignsRepositoryImpl {
	return &CampaignsRepositoryImpl{db: db}
}

var _ CampaignsRepository = (*CampaignsRepositoryImpl)(nil)

func (r *CampaignsRepositoryImpl) Insert(ctx context.Context, name, message string, totalRecipients int, status string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (name, message, total_recipients, status)
		VALUES (?, ?, ?, ?)
	`, name, message, totalRecipients, status)
	return err
}
