package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
	"github.com/kendall-kelly/shopstore/tests/testutil"
)

type fixture struct {
	store    *store.Store
	clients  []models.Client
	products []models.Product
}

func newFixture(t *testing.T, clients, products int) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	require.NoError(t, store.EnsureSchema(db))
	f := &fixture{store: store.New(db)}
	ctx := context.Background()

	for i := 1; i <= clients; i++ {
		c := models.Client{Name: fmt.Sprintf("client%d", i), Email: fmt.Sprintf("c%d@example.com", i), Phone: "+1234567890"}
		_, err := f.store.Clients.Add(ctx, &c)
		require.NoError(t, err)
		f.clients = append(f.clients, c)
	}
	for i := 1; i <= products; i++ {
		p := models.Product{Name: fmt.Sprintf("product%d", i), Price: float64(i), Quantity: 100}
		_, err := f.store.Products.Add(ctx, &p)
		require.NoError(t, err)
		f.products = append(f.products, p)
	}
	return f
}

func (f *fixture) order(t *testing.T, client int, day int, products ...int) {
	t.Helper()

	o := models.Order{
		ClientID: f.clients[client].ID,
		Date:     models.NewDate(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)),
	}
	for _, p := range products {
		o.Items = append(o.Items, models.NewOrderItem(f.products[p], 1))
	}
	_, err := f.store.Orders.Add(context.Background(), &o)
	require.NoError(t, err)
}

func TestTopClients(t *testing.T) {
	f := newFixture(t, 7, 1)
	// client index -> number of orders
	plan := map[int]int{0: 1, 1: 4, 2: 2, 3: 2, 4: 3, 5: 1, 6: 5}
	for client, n := range plan {
		for i := 0; i < n; i++ {
			f.order(t, client, 1, 0)
		}
	}

	top, err := New(f.store).TopClients(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, top, DefaultTopClients)

	got := make([]string, len(top))
	for i, row := range top {
		got[i] = fmt.Sprintf("%s=%d", row.Name, row.Orders)
	}
	assert.Equal(t, []string{"client7=5", "client2=4", "client5=3", "client3=2", "client4=2"}, got)
}

func TestTopClientsIgnoresDanglingClients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, 1)
	f.order(t, 0, 1, 0)
	f.order(t, 0, 1, 0)
	f.order(t, 1, 1, 0)
	require.NoError(t, f.store.DB().Exec("DELETE FROM clients WHERE id = ?", f.clients[0].ID).Error)

	top, err := New(f.store).TopClients(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, f.clients[1].ID, top[0].ClientID)
}

func TestOrderDynamics(t *testing.T) {
	f := newFixture(t, 1, 1)
	for _, day := range []int{3, 1, 3, 2, 3} {
		f.order(t, 0, day, 0)
	}

	days, err := New(f.store).OrderDynamics(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2024-01-01", days[0].Date.String())
	assert.Equal(t, 1, days[0].Orders)
	assert.Equal(t, "2024-01-02", days[1].Date.String())
	assert.Equal(t, "2024-01-03", days[2].Date.String())
	assert.Equal(t, 3, days[2].Orders)
}

func TestOrderDynamicsEmpty(t *testing.T) {
	f := newFixture(t, 0, 0)

	days, err := New(f.store).OrderDynamics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestClientProductGraph(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.order(t, 0, 1, 0, 1)
	f.order(t, 0, 2, 1)
	f.order(t, 1, 2, 2)

	g, err := New(f.store).ClientProductGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Clients, 3, "clients without orders are still nodes")
	assert.Len(t, g.Products, 3)
	assert.Equal(t, []Edge{
		{ClientID: 1, ProductID: 1},
		{ClientID: 1, ProductID: 2},
		{ClientID: 2, ProductID: 3},
	}, g.Edges)
}
