// Package importer streams uploaded CSV rows through the normalizer and
// upserts them into the customer/policy tables.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/policydesk/polgw/internal/logger"
	"github.com/policydesk/polgw/internal/metrics"
	"github.com/policydesk/polgw/internal/model"
	"github.com/policydesk/polgw/internal/normalize"
	"github.com/policydesk/polgw/internal/repository"
)

// Result counts one import run. Skipped rows are normalizer rejections,
// not errors: the batch keeps going.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	customers repository.CustomersRepository
	policies  repository.PoliciesRepository
	norm      *normalize.Normalizer
}

func New(
	customersRepo repository.CustomersRepository,
	policiesRepo repository.PoliciesRepository,
	norm *normalize.Normalizer,
) *Importer {
	return &Importer{
		customers: customersRepo,
		policies:  policiesRepo,
		norm:      norm,
	}
}

// ImportCSV consumes a delimited stream with a header row. Each row runs
// through the normalizer; rejected rows are skipped and logged. Accepted
// rows insert-if-absent the customer by phone, then insert-or-replace
// the policy by policy number. Rows are committed individually, so a
// mid-batch storage failure leaves earlier rows in place.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}

		raw := make(map[string]string, len(header))
		for idx, col := range header {
			if idx < len(row) {
				raw[strings.TrimSpace(col)] = strings.TrimSpace(row[idx])
			}
		}

		rec, rej := i.norm.Row(raw)
		if rej != nil {
			logger.Log.Warn("skipping record due to missing required fields",
				zap.Strings("missing", rej.Missing),
				zap.Any("record", rej.Raw),
			)
			res.Skipped++
			metrics.ImportRows.WithLabelValues("skipped").Inc()
			continue
		}

		if err := i.Upsert(ctx, rec); err != nil {
			return res, err
		}
		res.Imported++
		metrics.ImportRows.WithLabelValues("imported").Inc()
	}

	return res, nil
}

// Upsert writes one canonical record: customer keyed by phone (reused if
// already present), policy keyed by policy number (replaced if present).
// Also used by the manual add-customer endpoint.
func (i *Importer) Upsert(ctx context.Context, rec normalize.Record) error {
	if err := i.customers.InsertIfAbsent(ctx, model.Customer{
		Name:  rec.Name,
		Phone: rec.Phone,
		Email: rec.Email,
	}); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	customerID, err := i.customers.GetIDByPhone(ctx, rec.Phone)
	if err != nil {
		return fmt.Errorf("resolve customer by phone: %w", err)
	}
	if customerID == 0 {
		// unreachable after insert-if-absent on the same connection
		return fmt.Errorf("customer not found after insert: %s", rec.Phone)
	}

	if err := i.policies.Upsert(ctx, model.Policy{
		CustomerID:   customerID,
		PolicyNumber: rec.PolicyNumber,
		PolicyType:   rec.PolicyType,
		ExpiryDate:   rec.ExpiryDate,
	}); err != nil {
		return fmt.Errorf("upsert policy %s: %w", rec.PolicyNumber, err)
	}

	return nil
}
