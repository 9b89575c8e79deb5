package model

// Campaign summarizes one production broadcast. Written once, after the
// send loop; status is fixed by the engine, not derived from outcomes.
type Campaign struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Message         string `db:"message" json:"message"`
	SentAt          string `db:"sent_at" json:"sent_at"`
	TotalRecipients int    `db:"total_recipients" json:"total_recipients"`
	Status          string `db:"status" json:"status"`
}
