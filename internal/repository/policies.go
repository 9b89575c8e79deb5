package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/policydesk/polgw/internal/model"
)

type PoliciesRepository interface {
	// Upsert replaces any existing row sharing the policy number,
	// including its customer_id. A reused policy number silently moves
	// the policy to the new customer; kept from the original system.
	Upsert(ctx context.Context, p model.Policy) error
	ListWithCustomers(ctx context.Context) ([]model.PolicyWithCustomer, error)
	// ListExpiringOn matches date(expiry_date) = target exactly; target is YYYY-MM-DD.
	ListExpiringOn(ctx context.Context, target string) ([]model.PolicyWithCustomer, error)
}

type PoliciesRepositoryImpl struct {
	db *sqlx.DB
}

func NewPoliciesRepository(db *sqlx.DB) *PoliciesRepositoryImpl {
	return &PoliciesRepositoryImpl{db: db}
}

var _ PoliciesRepository = (*PoliciesRepositoryImpl)(nil)

func (r *PoliciesRepositoryImpl) Upsert(ctx context.Context, p model.Policy) error {
	// status omitted on purpose: REPLACE re-applies the 'active' default
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO policies (customer_id, policy_number, policy_type, expiry_date)
		VALUES (?, ?, ?, ?)
	`, p.CustomerID, p.PolicyNumber, p.PolicyType, p.ExpiryDate)
	return err
}

func (r *PoliciesRepositoryImpl) ListWithCustomers(ctx context.Context) ([]model.PolicyWithCustomer, error) {
	out := make([]model.PolicyWithCustomer, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT p.id, p.customer_id, p.policy_number, p.policy_type, p.expiry_date,
		       COALESCE(p.status, 'active') AS status,
		       c.name AS customer_name, c.phone
		  FROM policies p
		  JOIN customers c ON p.customer_id = c.id
		 ORDER BY p.expiry_date ASC
	`)
	return out, err
}

func (r *PoliciesRepositoryImpl) ListExpiringOn(ctx context.Context, target string) ([]model.PolicyWithCustomer, error) {
	out := make([]model.PolicyWithCustomer, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT p.id, p.customer_id, p.policy_number, p.policy_type, p.expiry_date,
		       COALESCE(p.status, 'active') AS status,
		       c.name AS customer_name, c.phone
		  FROM policies p
		  JOIN customers c ON p.customer_id = c.id
		 WHERE date(p.expiry_date) = ?
	`, target)
	return out, err
}
