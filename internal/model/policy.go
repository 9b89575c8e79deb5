package model

// Policy is one insurance policy row. PolicyNumber is UNIQUE and upserts
// use INSERT OR REPLACE, so re-importing a policy number overwrites the
// whole row, including its owning customer.
type Policy struct {
	ID           int64  `db:"id" json:"id"`
	CustomerID   int64  `db:"customer_id" json:"customer_id"`
	PolicyNumber string `db:"policy_number" json:"policy_number"`
	PolicyType   string `db:"policy_type" json:"policy_type"`
	ExpiryDate   string `db:"expiry_date" json:"expiry_date"` // YYYY-MM-DD
	Status       string `db:"status" json:"status"`
}

// PolicyWithCustomer is the dashboard list row (policies joined with customers).
type PolicyWithCustomer struct {
	Policy
	CustomerName string `db:"customer_name" json:"customer_name"`
	Phone        string `db:"phone" json:"phone"`
}
