// Package reminder runs the lead-time sweep: for each offset it finds
// policies expiring exactly offset days from today and sends one
// template reminder per match.
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/policydesk/polgw/internal/logger"
	"github.com/policydesk/polgw/internal/metrics"
	"github.com/policydesk/polgw/internal/model"
	"github.com/policydesk/polgw/internal/repository"
	"github.com/policydesk/polgw/internal/whatsapp"
)

const dateLayout = "2006-01-02"

var defaultOffsets = []int{30, 15, 7}

// Outcome is one dispatched reminder, returned to the caller and echoed
// on the trigger endpoint.
type Outcome struct {
	PolicyNumber string               `json:"policy"`
	Days         int                  `json:"days"`
	Status       model.DeliveryStatus `json:"status"`
}

type Sweeper struct {
	policies repository.PoliciesRepository
	logs     repository.RemindersRepository
	sender   whatsapp.Messenger
	offsets  []int
	template string
	now      func() time.Time
}

func NewSweeper(
	policiesRepo repository.PoliciesRepository,
	remindersRepo repository.RemindersRepository,
	sender whatsapp.Messenger,
	offsets []int,
	template string,
) *Sweeper {
	if len(offsets) == 0 {
		offsets = defaultOffsets
	}
	if template == "" {
		template = "policy_expiry_reminder"
	}
	return &Sweeper{
		policies: policiesRepo,
		logs:     remindersRepo,
		sender:   sender,
		offsets:  offsets,
		template: template,
		now:      time.Now,
	}
}

// WithNow overrides the clock; used by tests to pin target dates.
func (s *Sweeper) WithNow(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Run executes one sweep. Matching is an exact calendar-date comparison
// per offset, so daily scheduling picks each policy up once per offset.
// There is no dedup against prior log rows: re-running on the same day
// re-sends and re-logs every still-matching policy.
func (s *Sweeper) Run(ctx context.Context) ([]Outcome, error) {
	metrics.ReminderSweeps.Inc()

	results := make([]Outcome, 0)
	for _, days := range s.offsets {
		target := s.now().AddDate(0, 0, days).Format(dateLayout)

		matches, err := s.policies.ListExpiringOn(ctx, target)
		if err != nil {
			return results, fmt.Errorf("list policies expiring on %s: %w", target, err)
		}

		for _, p := range matches {
			res := s.sender.Send(ctx, p.Phone, model.TemplateMessage(
				s.template, p.CustomerName, p.PolicyType, p.ExpiryDate,
			))

			if err := s.logs.Insert(ctx, p.ID, res.Status, days); err != nil {
				return results, fmt.Errorf("log reminder for policy %s: %w", p.PolicyNumber, err)
			}

			logger.Log.Info("reminder dispatched",
				zap.String("policy", p.PolicyNumber),
				zap.Int("days_remaining", days),
				zap.String("status", res.Status.String()),
			)
			results = append(results, Outcome{
				PolicyNumber: p.PolicyNumber,
				Days:         days,
				Status:       res.Status,
			})
		}
	}

	return results, nil
}
