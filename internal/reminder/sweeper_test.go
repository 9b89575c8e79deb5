package reminder

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/policydesk/polgw/internal/model"
	"github.com/policydesk/polgw/internal/repository"
)

type sentMsg struct {
	Phone string
	Msg   model.OutboundMessage
}

type fakeMessenger struct {
	sent   []sentMsg
	status model.DeliveryStatus
}

func (f *fakeMessenger) Send(_ context.Context, phone string, msg model.OutboundMessage) model.DeliveryResult {
	f.sent = append(f.sent, sentMsg{Phone: phone, Msg: msg})
	st := f.status
	if st == "" {
		st = model.StatusMockSent
	}
	return model.DeliveryResult{Status: st}
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbx, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbx.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = dbx.Exec(string(schema))
	require.NoError(t, err)
	return dbx
}

func seedPolicy(t *testing.T, dbx *sqlx.DB, name, phone, number, typ, expiry string) int64 {
	t.Helper()
	_, err := dbx.Exec(`INSERT OR IGNORE INTO customers (name, phone, email) VALUES (?, ?, '')`, name, phone)
	require.NoError(t, err)
	var customerID int64
	require.NoError(t, dbx.Get(&customerID, `SELECT id FROM customers WHERE phone = ?`, phone))
	res, err := dbx.Exec(`
		INSERT INTO policies (customer_id, policy_number, policy_type, expiry_date)
		VALUES (?, ?, ?, ?)
	`, customerID, number, typ, expiry)
	require.NoError(t, err)
	policyID, err := res.LastInsertId()
	require.NoError(t, err)
	return policyID
}

func newSweeper(dbx *sqlx.DB, sender *fakeMessenger, now time.Time) *Sweeper {
	return NewSweeper(
		repository.NewPoliciesRepository(dbx),
		repository.NewRemindersRepository(dbx),
		sender,
		nil, // default {30,15,7}
		"",
	).WithNow(func() time.Time { return now })
}

func TestSweepMatchesExactOffsetOnly(t *testing.T) {
	dbx := newTestDB(t)
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	in7 := now.AddDate(0, 0, 7).Format("2006-01-02")
	in8 := now.AddDate(0, 0, 8).Format("2006-01-02")
	policyID := seedPolicy(t, dbx, "Asha", "+919876543210", "POL-7", "Motor", in7)
	seedPolicy(t, dbx, "Ravi", "+919876500000", "POL-8", "Health", in8)

	sender := &fakeMessenger{}
	sweeper := newSweeper(dbx, sender, now)

	results, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "POL-7", results[0].PolicyNumber)
	assert.Equal(t, 7, results[0].Days)
	assert.Equal(t, model.StatusMockSent, results[0].Status)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+919876543210", sender.sent[0].Phone)
	assert.Equal(t, model.KindTemplate, sender.sent[0].Msg.Kind)
	assert.Equal(t, "policy_expiry_reminder", sender.sent[0].Msg.TemplateName)
	assert.Equal(t, []string{"Asha", "Motor", in7}, sender.sent[0].Msg.Params)

	var logs []model.ReminderLog
	require.NoError(t, dbx.Select(&logs, `SELECT id, policy_id, sent_at, status, days_remaining, message_type FROM reminder_logs`))
	require.Len(t, logs, 1)
	assert.Equal(t, policyID, logs[0].PolicyID)
	assert.Equal(t, 7, logs[0].DaysRemaining)
	assert.Equal(t, "mock_sent", logs[0].Status)
	assert.Equal(t, "reminder", logs[0].MessageType)
}

func TestSweepCoversAllOffsets(t *testing.T) {
	dbx := newTestDB(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	seedPolicy(t, dbx, "A", "+911000000001", "POL-30", "Life", now.AddDate(0, 0, 30).Format("2006-01-02"))
	seedPolicy(t, dbx, "B", "+911000000002", "POL-15", "Life", now.AddDate(0, 0, 15).Format("2006-01-02"))
	seedPolicy(t, dbx, "C", "+911000000003", "POL-7", "Life", now.AddDate(0, 0, 7).Format("2006-01-02"))

	sender := &fakeMessenger{}
	results, err := newSweeper(dbx, sender, now).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 3)
	// offsets sweep in declared order: 30, 15, 7
	assert.Equal(t, 30, results[0].Days)
	assert.Equal(t, 15, results[1].Days)
	assert.Equal(t, 7, results[2].Days)
}

func TestSweepRerunDuplicatesSendsAndLogs(t *testing.T) {
	// no dedup against prior reminder_logs rows: a second run on the
	// same day re-sends and re-logs (known gap, preserved)
	dbx := newTestDB(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPolicy(t, dbx, "Asha", "+919876543210", "POL-7", "Motor", now.AddDate(0, 0, 7).Format("2006-01-02"))

	sender := &fakeMessenger{}
	sweeper := newSweeper(dbx, sender, now)

	_, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	_, err = sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, sender.sent, 2)

	var logCount int
	require.NoError(t, dbx.Get(&logCount, `SELECT COUNT(*) FROM reminder_logs`))
	assert.Equal(t, 2, logCount)
}

func TestSweepRecordsFailedStatus(t *testing.T) {
	dbx := newTestDB(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPolicy(t, dbx, "Asha", "+919876543210", "POL-7", "Motor", now.AddDate(0, 0, 7).Format("2006-01-02"))

	sender := &fakeMessenger{status: model.StatusFailed}
	results, err := newSweeper(dbx, sender, now).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, model.StatusFailed, results[0].Status)

	var status string
	require.NoError(t, dbx.Get(&status, `SELECT status FROM reminder_logs LIMIT 1`))
	assert.Equal(t, "failed", status)
}

func TestSweepNoMatchesIsEmptyNotNil(t *testing.T) {
	dbx := newTestDB(t)
	sender := &fakeMessenger{}
	results, err := newSweeper(dbx, sender, time.Now()).Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
