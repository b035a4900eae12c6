package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/shopstore/models"
)

func TestClientAddAssignsIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := models.Client{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"}
	id, err := s.Clients.Add(ctx, &first)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, uint(1), first.ID, "generated id is written back")

	second := models.Client{Name: "Bob", Email: "bob@example.com", Phone: "+1234567891", Address: "2 Side St"}
	id, err = s.Clients.Add(ctx, &second)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)

	got, err := s.Clients.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestClientAddRejects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		client models.Client
	}{
		{"preassigned id", models.Client{ID: 7, Name: "A", Email: "a@example.com", Phone: "+1234567890"}},
		{"malformed email", models.Client{Name: "A", Email: "nope", Phone: "+1234567890"}},
		{"malformed phone", models.Client{Name: "A", Email: "a@example.com", Phone: "12"}},
		{"missing name", models.Client{Email: "a@example.com", Phone: "+1234567890"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.client
			_, err := s.Clients.Add(ctx, &c)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	all, err := s.Clients.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected clients must not be stored")
}

func TestClientUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")

	c.Name = "Alice Cooper"
	c.Address = ""
	require.NoError(t, s.Clients.Update(ctx, c))

	got, err := s.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", got.Name)
	assert.Equal(t, "", got.Address, "zero values are written too")
}

func TestClientUpdateMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Clients.Update(context.Background(), models.Client{ID: 42, Name: "Ghost", Email: "g@example.com", Phone: "+1234567890"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Clients.Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientAllIsOrderedByID(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		seedClient(t, s, name)
	}

	clients, err := s.Clients.All(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "carol", clients[0].Name)
	assert.Equal(t, "alice", clients[1].Name)
	assert.Equal(t, "bob", clients[2].Name)
}

func TestClientDeleteReferencedByOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")
	p := seedProduct(t, s, "pen", 1.5, 10)
	o := seedOrder(t, s, c, models.NewOrderItem(p, 1))

	err := s.Clients.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, ErrReferentialConflict)

	_, err = s.Clients.Get(ctx, c.ID)
	assert.NoError(t, err, "rejected delete leaves the client in place")

	require.NoError(t, s.Orders.Delete(ctx, o.ID))
	require.NoError(t, s.Clients.Delete(ctx, c.ID))

	_, err = s.Clients.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDeleteMissing(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Clients.Delete(context.Background(), 9), ErrNotFound)
}

func TestClientFindByName(t *testing.T) {
	s := newTestStore(t)
	seedClient(t, s, "alice")
	seedClient(t, s, "malice")
	seedClient(t, s, "bob")

	found, err := s.Clients.FindByName(context.Background(), "ALI")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice", found[0].Name)
	assert.Equal(t, "malice", found[1].Name)
}
