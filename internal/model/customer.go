package model

// Customer owns zero or more policies. Phone is the dedup key:
// re-importing a known phone reuses the existing row.
type Customer struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Email string `db:"email" json:"email"`
}
