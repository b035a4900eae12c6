package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/tests/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db := testutil.NewTestDB(t)
	require.NoError(t, EnsureSchema(db), "Failed to create schema")
	return New(db)
}

func seedClient(t *testing.T, s *Store, name string) models.Client {
	t.Helper()

	c := models.Client{
		Name:    name,
		Email:   fmt.Sprintf("%s@example.com", name),
		Phone:   "+1234567890",
		Address: "1 Main St",
	}
	_, err := s.Clients.Add(context.Background(), &c)
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, s *Store, name string, price float64, quantity int) models.Product {
	t.Helper()

	p := models.Product{Name: name, Price: price, Category: "Test", Quantity: quantity}
	_, err := s.Products.Add(context.Background(), &p)
	require.NoError(t, err)
	return p
}

func seedOrder(t *testing.T, s *Store, client models.Client, items ...models.OrderItem) models.Order {
	t.Helper()

	o := models.Order{ClientID: client.ID, Items: items}
	_, err := s.Orders.Add(context.Background(), &o)
	require.NoError(t, err)
	return o
}

func clientIDs(t *testing.T, s *Store) []uint {
	t.Helper()

	clients, err := s.Clients.All(context.Background())
	require.NoError(t, err)
	ids := make([]uint, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return ids
}

func contiguous(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}
