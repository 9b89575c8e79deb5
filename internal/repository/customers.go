package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/policydesk/polgw/internal/model"
)

type CustomersRepository interface {
	// InsertIfAbsent creates the customer unless the phone is already known.
	InsertIfAbsent(ctx context.Context, c model.Customer) error
	// GetIDByPhone returns 0 when no customer carries the phone.
	GetIDByPhone(ctx context.Context, phone string) (int64, error)
	ListAll(ctx context.Context) ([]model.Customer, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

func (r *CustomersRepositoryImpl) InsertIfAbsent(ctx context.Context, c model.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO customers (name, phone, email)
		VALUES (?, ?, ?)
	`, c.Name, c.Phone, c.Email)
	return err
}

func (r *CustomersRepositoryImpl) GetIDByPhone(ctx context.Context, phone string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM customers WHERE phone = ? LIMIT 1`, phone)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CustomersRepositoryImpl) ListAll(ctx context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, phone, COALESCE(email, '') AS email
		  FROM customers
		 ORDER BY id
	`)
	return out, err
}
