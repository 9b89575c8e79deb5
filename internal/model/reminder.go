package model

// ReminderLog is append-only: one row per dispatch attempt, never
// updated. Re-running a sweep on the same day appends again.
type ReminderLog struct {
	ID            int64  `db:"id" json:"id"`
	PolicyID      int64  `db:"policy_id" json:"policy_id"`
	SentAt        string `db:"sent_at" json:"sent_at"`
	Status        string `db:"status" json:"status"`
	DaysRemaining int    `db:"days_remaining" json:"days_remaining"`
	MessageType   string `db:"message_type" json:"message_type"`
}

// ReminderLogEntry is a log row joined with policy/customer display fields.
type ReminderLogEntry struct {
	ReminderLog
	PolicyNumber string `db:"policy_number" json:"policy_number"`
	CustomerName string `db:"customer_name" json:"customer_name"`
}
