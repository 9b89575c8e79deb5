// Package broadcast sends a templated freeform message to either a
// single test recipient or the full customer list.
package broadcast

import (
	"context"
	"fmt"
	"strings"

	"github.com/policydesk/polgw/internal/model"
	"github.com/policydesk/polgw/internal/repository"
	"github.com/policydesk/polgw/internal/whatsapp"
)

const (
	namePlaceholder = "{{1}}"
	testRecipient   = "Admin (Test)"
)

// SendResult is one per-recipient outcome.
type SendResult struct {
	Phone  string               `json:"phone"`
	Status model.DeliveryStatus `json:"status"`
}

type Engine struct {
	customers  repository.CustomersRepository
	campaigns  repository.CampaignsRepository
	sender     whatsapp.Messenger
	adminPhone string
}

func NewEngine(
	customersRepo repository.CustomersRepository,
	campaignsRepo repository.CampaignsRepository,
	sender whatsapp.Messenger,
	adminPhone string,
) *Engine {
	return &Engine{
		customers:  customersRepo,
		campaigns:  campaignsRepo,
		sender:     sender,
		adminPhone: adminPhone,
	}
}

// Run substitutes the first {{1}} occurrence with each recipient's name
// (literal replacement, not a template language) and sends sequentially.
// Test runs go only to the configured admin phone and write no campaign
// row. Production runs append one campaigns row with status "completed"
// regardless of per-recipient outcomes; that status is not a delivery
// tally, a point the original system also glossed over.
func (e *Engine) Run(ctx context.Context, campaignName, template string, isTest bool) ([]SendResult, error) {
	var recipients []model.Customer
	if isTest {
		recipients = []model.Customer{{Name: testRecipient, Phone: e.adminPhone}}
	} else {
		all, err := e.customers.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		recipients = all
	}

	results := make([]SendResult, 0, len(recipients))
	for _, c := range recipients {
		personalized := strings.Replace(template, namePlaceholder, c.Name, 1)
		res := e.sender.Send(ctx, c.Phone, model.TextMessage(personalized))
		results = append(results, SendResult{Phone: c.Phone, Status: res.Status})
	}

	if !isTest {
		if err := e.campaigns.Insert(ctx, campaignName, template, len(recipients), "completed"); err != nil {
			return results, fmt.Errorf("record campaign: %w", err)
		}
	}

	return results, nil
}
