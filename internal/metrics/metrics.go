package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polgw_messages_total",
			Help: "Outbound WhatsApp messages by kind and delivery status",
		},
		[]string{"kind", "status"}, // template|text , sent|mock_sent|failed
	)

	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polgw_import_rows_total",
			Help: "CSV import rows by result",
		},
		[]string{"result"}, // imported|skipped
	)

	ReminderSweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "polgw_reminder_sweeps_total",
			Help: "Reminder sweep runs",
		},
	)
)

var registerOnce sync.Once

func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			MessagesTotal,
			ImportRows,
			ReminderSweeps,
		)
	})
}
