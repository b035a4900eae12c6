package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
	"github.com/kendall-kelly/shopstore/tests/testutil"
)

// shop runs command lines against one sqlite file
type shop struct {
	t  *testing.T
	db string
}

func newShop(t *testing.T) *shop {
	t.Helper()
	testutil.MustSetTestEnvironment(t)
	t.Chdir(t.TempDir())
	return &shop{t: t, db: filepath.Join(t.TempDir(), "shop.db")}
}

func (s *shop) run(args ...string) (string, error) {
	s.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--database", s.db, "--log-level", "error"}, args...)
	err := Run(context.Background(), full, &out, &errOut)
	return out.String(), err
}

func (s *shop) mustRun(args ...string) string {
	s.t.Helper()
	out, err := s.run(args...)
	require.NoError(s.t, err, "shopstore %v", args)
	return out
}

func TestSchemaCommand(t *testing.T) {
	s := newShop(t)

	out := s.mustRun("schema")
	for _, table := range store.TableNames {
		assert.Contains(t, out, table)
	}
	assert.NotContains(t, out, "missing")
	assert.Contains(t, out, "schema ready (sqlite)")
}

func TestClientCommands(t *testing.T) {
	s := newShop(t)

	assert.Contains(t, s.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890"), "client 1 added")
	assert.Contains(t, s.mustRun("client", "add", "--name", "Bob", "--email", "bob@example.com", "--phone", "5551234567"), "client 2 added")

	out := s.mustRun("client", "list")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Bob")

	out = s.mustRun("client", "list", "--name", "bo")
	assert.NotContains(t, out, "Ann")
	assert.Contains(t, out, "Bob")

	s.mustRun("client", "update", "2", "--address", "2 High St")
	out = s.mustRun("client", "get", "2")
	assert.Contains(t, out, "2 High St")
	assert.Contains(t, out, "bob@example.com", "unchanged fields are kept")

	out = s.mustRun("client", "delete", "1")
	assert.Contains(t, out, "client 1 deleted; 1 clients renumbered")
	out = s.mustRun("client", "get", "1")
	assert.Contains(t, out, "Bob")

	_, err := s.run("client", "get", "2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientAddValidation(t *testing.T) {
	s := newShop(t)

	_, err := s.run("client", "add", "--name", "Ann", "--email", "nope", "--phone", "+1234567890")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProductCommands(t *testing.T) {
	s := newShop(t)

	s.mustRun("product", "add", "--name", "Pen", "--price", "1.5", "--quantity", "10")
	out := s.mustRun("product", "get", "1")
	assert.Contains(t, out, "General")
	assert.Contains(t, out, "1.50")

	s.mustRun("product", "update", "1", "--quantity", "7")
	assert.Regexp(t, `General\s+7\n`, s.mustRun("product", "list"))

	_, err := s.run("product", "add", "--name", "Bad", "--price", "-1")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCheckoutCommand(t *testing.T) {
	s := newShop(t)
	s.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890")
	s.mustRun("product", "add", "--name", "P1", "--price", "10", "--quantity", "5")

	out := s.mustRun("order", "checkout", "--client", "1", "--item", "1:3")
	assert.Contains(t, out, "order 1 placed for Ann, total 30.00")
	assert.Regexp(t, `General\s+2\n`, s.mustRun("product", "get", "1"))

	_, err := s.run("order", "checkout", "--client", "1", "--item", "1:3")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "P1")

	out = s.mustRun("order", "list")
	assert.Contains(t, out, "30.00")
	assert.NotContains(t, out, "\n2 ")

	out = s.mustRun("order", "get", "1")
	assert.Contains(t, out, "Order 1")
	assert.Contains(t, out, "Total:    30.00")
}

func TestCheckoutWithDiscountAndDate(t *testing.T) {
	s := newShop(t)
	s.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890")
	s.mustRun("product", "add", "--name", "Pen", "--price", "10", "--quantity", "5")

	out := s.mustRun("order", "checkout", "--client", "1", "--item", "1:2", "--discount", "0.1", "--date", "2024-05-01")
	assert.Contains(t, out, "total 18.00")

	out = s.mustRun("order", "get", "1")
	assert.Contains(t, out, "2024-05-01")
	assert.Contains(t, out, "Discount: 10%")
}

func TestDeleteReferencedRecords(t *testing.T) {
	s := newShop(t)
	s.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890")
	s.mustRun("product", "add", "--name", "Pen", "--price", "1", "--quantity", "5")
	s.mustRun("order", "checkout", "--client", "1", "--item", "1:1")

	_, err := s.run("client", "delete", "1")
	assert.ErrorIs(t, err, store.ErrReferentialConflict)
	_, err = s.run("product", "delete", "1")
	assert.ErrorIs(t, err, store.ErrReferentialConflict)

	assert.Contains(t, s.mustRun("order", "delete", "1"), "order 1 deleted")
	assert.Contains(t, s.mustRun("client", "delete", "1"), "client 1 deleted")
}

func TestReindexCommand(t *testing.T) {
	s := newShop(t)
	s.mustRun("product", "add", "--name", "Pen", "--price", "1")

	out := s.mustRun("reindex")
	assert.Contains(t, out, "clients: 0 rows, 0 renumbered")
	assert.Contains(t, out, "products: 1 rows, 0 renumbered")

	out = s.mustRun("reindex", "products")
	assert.Contains(t, out, "products: 1 rows")

	_, err := s.run("reindex", "users")
	assert.Error(t, err)
}

func TestExportImportCommands(t *testing.T) {
	source := newShop(t)
	source.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890")
	file := filepath.Join(t.TempDir(), "clients.yaml")
	assert.Contains(t, source.mustRun("export", "--kind", "clients", "--file", file), "exported 1 clients")

	target := &shop{t: t, db: filepath.Join(t.TempDir(), "target.db")}
	assert.Contains(t, target.mustRun("import", "--kind", "clients", "--file", file), "imported 1 clients")
	assert.Contains(t, target.mustRun("client", "list"), "ann@example.com")

	_, err := target.run("import", "--kind", "clients", "--file", filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)

	_, err = target.run("export", "--kind", "clients")
	assert.Error(t, err, "--file is required")
}

func TestReportCommands(t *testing.T) {
	s := newShop(t)
	s.mustRun("client", "add", "--name", "Ann", "--email", "ann@example.com", "--phone", "+1234567890")
	s.mustRun("product", "add", "--name", "Pen", "--price", "1", "--quantity", "5")

	assert.Contains(t, s.mustRun("report", "top-clients"), "no orders")

	s.mustRun("order", "checkout", "--client", "1", "--item", "1:1", "--date", "2024-05-01")

	assert.Contains(t, s.mustRun("report", "top-clients"), "Ann")
	assert.Contains(t, s.mustRun("report", "dynamics"), "2024-05-01")
	assert.Contains(t, s.mustRun("report", "graph"), "Ann -> Pen")
}

func TestParseItemFlag(t *testing.T) {
	tests := []struct {
		in      string
		id      uint
		qty     int
		wantErr bool
	}{
		{in: "1:3", id: 1, qty: 3},
		{in: " 2 : 4 ", id: 2, qty: 4},
		{in: "3:0", id: 3, qty: 0},
		{in: "3", wantErr: true},
		{in: "0:1", wantErr: true},
		{in: "a:1", wantErr: true},
		{in: "1:b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, qty, err := parseItemFlag(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.qty, qty)
		})
	}
}

func TestParseID(t *testing.T) {
	_, err := parseID("abc")
	assert.Error(t, err)
	_, err = parseID("0")
	assert.Error(t, err)
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}
