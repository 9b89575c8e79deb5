package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/policydesk/polgw/internal/model"
)

type RemindersRepository interface {
	// Insert appends one log row; sent_at and message_type take their
	// table defaults.
	Insert(ctx context.Context, policyID int64, status model.DeliveryStatus, daysRemaining int) error
	ListRecent(ctx context.Context, limit int) ([]model.ReminderLogEntry, error)
}

type RemindersRepositoryImpl struct {
	db *sqlx.DB
}

func NewRemindersRepository(db *sqlx.DB) *RemindersRepositoryImpl {
	return &RemindersRepositoryImpl{db: db}
}

var _ RemindersRepository = (*RemindersRepositoryImpl)(nil)

func (r *RemindersRepositoryImpl) Insert(ctx context.Context, policyID int64, status model.DeliveryStatus, daysRemaining int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_logs (policy_id, status, days_remaining)
		VALUES (?, ?, ?)
	`, policyID, status.String(), daysRemaining)
	return err
}

func (r *RemindersRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]model.ReminderLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	out := make([]model.ReminderLogEntry, 0, limit)
	err := r.db.SelectContext(ctx, &out, `
		SELECT l.id, l.policy_id, l.sent_at, l.status, l.days_remaining, l.message_type,
		       p.policy_number, c.name AS customer_name
		  FROM reminder_logs l
		  JOIN policies p ON l.policy_id = p.id
		  JOIN customers c ON p.customer_id = c.id
		 ORDER BY l.sent_at DESC, l.id DESC
		 LIMIT ?
	`, limit)
	return out, err
}
