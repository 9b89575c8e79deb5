package importer

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/policydesk/polgw/internal/normalize"
	"github.com/policydesk/polgw/internal/repository"
)

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

func newImporter(dbx *sqlx.DB) *Importer {
	return New(
		repository.NewCustomersRepository(dbx),
		repository.NewPoliciesRepository(dbx),
		normalize.New(""),
	)
}

func TestImportCSVHappyPath(t *testing.T) {
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	csv := strings.Join([]string{
		"Customer Name,Phone Number,Email,Policy Number,Policy Type,Expiry Date",
		"Asha Verma,9876543210,asha@example.com,POL-1,Motor,31-01-2025",
		"Ravi Iyer,9.19877E+11,,POL-2,Health,2025-06-15",
	}, "\n")

	res, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 0, res.Skipped)

	var phone string
	require.NoError(t, dbx.Get(&phone, `SELECT phone FROM customers WHERE name = 'Asha Verma'`))
	assert.Equal(t, "+919876543210", phone)

	var expiry string
	require.NoError(t, dbx.Get(&expiry, `SELECT expiry_date FROM policies WHERE policy_number = 'POL-1'`))
	assert.Equal(t, "2025-01-31", expiry)
}

func TestImportCSVSkipsRowsMissingRequiredFields(t *testing.T) {
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	csv := strings.Join([]string{
		"name,phone,expiry_date",
		"No Phone,,2025-01-01",
		"Good Row,9876543210,2025-01-01",
	}, "\n")

	res, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	var customers int
	require.NoError(t, dbx.Get(&customers, `SELECT COUNT(*) FROM customers`))
	assert.Equal(t, 1, customers)

	var policies int
	require.NoError(t, dbx.Get(&policies, `SELECT COUNT(*) FROM policies`))
	assert.Equal(t, 1, policies)
}

func TestImportCSVDedupsCustomerAndReplacesPolicy(t *testing.T) {
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	first := "name,phone,policy_number,policy_type,expiry_date\nAsha,9876543210,POL-1,Motor,2025-01-31"
	second := "name,phone,policy_number,policy_type,expiry_date\nAsha,9876543210,POL-1,Health,2026-01-31"

	_, err := imp.ImportCSV(context.Background(), strings.NewReader(first))
	require.NoError(t, err)
	_, err = imp.ImportCSV(context.Background(), strings.NewReader(second))
	require.NoError(t, err)

	var customers int
	require.NoError(t, dbx.Get(&customers, `SELECT COUNT(*) FROM customers`))
	assert.Equal(t, 1, customers)

	var policies int
	require.NoError(t, dbx.Get(&policies, `SELECT COUNT(*) FROM policies`))
	assert.Equal(t, 1, policies)

	// the replace wins: second row's values stand
	var typ, expiry string
	row := dbx.QueryRow(`SELECT policy_type, expiry_date FROM policies WHERE policy_number = 'POL-1'`)
	require.NoError(t, row.Scan(&typ, &expiry))
	assert.Equal(t, "Health", typ)
	assert.Equal(t, "2026-01-31", expiry)
}

func TestImportCSVReusedPolicyNumberMovesCustomer(t *testing.T) {
	// INSERT OR REPLACE repoints the policy at the newer customer when
	// the same policy number arrives with a different phone. Kept from
	// the original system; this test pins the hazard.
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	csv := strings.Join([]string{
		"name,phone,policy_number,expiry_date",
		"First Owner,9876543210,POL-1,2025-01-31",
		"Second Owner,9876500000,POL-1,2025-01-31",
	}, "\n")

	res, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	var owner string
	require.NoError(t, dbx.Get(&owner, `
		SELECT c.name FROM policies p JOIN customers c ON p.customer_id = c.id
		 WHERE p.policy_number = 'POL-1'
	`))
	assert.Equal(t, "Second Owner", owner)
}

func TestImportCSVEmptyStream(t *testing.T) {
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	res, err := imp.ImportCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 0, res.Skipped)
}

func TestImportCSVIgnoresUnknownColumns(t *testing.T) {
	dbx := newTestDB(t)
	imp := newImporter(dbx)

	csv := "name,phone,expiry_date,agent_branch,notes\nAsha,9876543210,2025-01-31,Pune,call before noon"
	res, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}
