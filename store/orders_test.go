package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/shopstore/models"
)

func TestOrderAddAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")
	pen := seedProduct(t, s, "pen", 2.0, 10)
	ink := seedProduct(t, s, "ink", 5.0, 10)

	date, err := models.ParseDate("2024-05-01")
	require.NoError(t, err)
	o := models.Order{
		ClientID: c.ID,
		Date:     date,
		Items:    []models.OrderItem{models.NewOrderItem(ink, 1), models.NewOrderItem(pen, 3)},
	}
	id, err := s.Orders.Add(ctx, &o)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	for _, item := range o.Items {
		assert.Equal(t, id, item.OrderID)
	}

	got, err := s.Orders.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Date.String())
	require.NotNil(t, got.Client)
	assert.Equal(t, "alice", got.Client.Name)
	require.Len(t, got.Items, 2)
	assert.Equal(t, pen.ID, got.Items[0].ProductID, "items come back in product id order")
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, ink.ID, got.Items[1].ProductID)
	assert.InDelta(t, 11.0, got.Total(), 1e-9)
}

func TestOrderAddDefaultsDate(t *testing.T) {
	s := newTestStore(t)
	c := seedClient(t, s, "alice")

	o := seedOrder(t, s, c)
	assert.Equal(t, models.Today().String(), o.Date.String())
}

func TestOrderAddMissingClient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "pen", 1, 1)

	o := models.Order{ClientID: 99, Items: []models.OrderItem{models.NewOrderItem(p, 1)}}
	_, err := s.Orders.Add(ctx, &o)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, o.ID)

	orders, err := s.Orders.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderAddMissingProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")

	o := models.Order{ClientID: c.ID, Items: []models.OrderItem{{ProductID: 12, Quantity: 1}}}
	_, err := s.Orders.Add(ctx, &o)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, s.DB().Table("orders").Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderAddRollsBackWhenItemsFail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")
	p := seedProduct(t, s, "pen", 1, 1)

	// Item inserts fail once the order row has been written
	require.NoError(t, s.DB().Migrator().DropTable("order_items"))

	o := models.Order{ClientID: c.ID, Items: []models.OrderItem{models.NewOrderItem(p, 1)}}
	_, err := s.Orders.Add(ctx, &o)
	assert.ErrorIs(t, err, ErrStorage)

	var count int64
	require.NoError(t, s.DB().Table("orders").Count(&count).Error)
	assert.Zero(t, count, "no order row may survive a failed item insert")
}

func TestOrderAddValidation(t *testing.T) {
	s := newTestStore(t)
	c := seedClient(t, s, "alice")
	p := seedProduct(t, s, "pen", 1, 1)

	o := models.Order{ClientID: c.ID, Items: []models.OrderItem{models.NewOrderItem(p, 1), models.NewOrderItem(p, 2)}}
	_, err := s.Orders.Add(context.Background(), &o)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOrderDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")
	p := seedProduct(t, s, "pen", 1, 5)
	o := seedOrder(t, s, c, models.NewOrderItem(p, 2))

	require.NoError(t, s.Orders.Delete(ctx, o.ID))

	_, err := s.Orders.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var items int64
	require.NoError(t, s.DB().Table("order_items").Count(&items).Error)
	assert.Zero(t, items, "items go with their order")

	assert.ErrorIs(t, s.Orders.Delete(ctx, o.ID), ErrNotFound)
}

func TestOrderAllToleratesDanglingReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedClient(t, s, "alice")
	bob := seedClient(t, s, "bob")
	pen := seedProduct(t, s, "pen", 2, 5)
	ink := seedProduct(t, s, "ink", 3, 5)
	seedOrder(t, s, alice, models.NewOrderItem(pen, 1), models.NewOrderItem(ink, 1))
	seedOrder(t, s, bob, models.NewOrderItem(pen, 2))

	// Rows removed behind the store's back
	require.NoError(t, s.DB().Exec("DELETE FROM products WHERE id = ?", ink.ID).Error)
	require.NoError(t, s.DB().Exec("DELETE FROM clients WHERE id = ?", bob.ID).Error)

	orders, err := s.Orders.All(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.NotNil(t, orders[0].Client)
	require.Len(t, orders[0].Items, 1, "item with a deleted product is omitted")
	assert.Equal(t, pen.ID, orders[0].Items[0].ProductID)
	assert.InDelta(t, 2.0, orders[0].Total(), 1e-9)

	assert.Nil(t, orders[1].Client, "deleted client resolves to unknown")
	assert.Len(t, orders[1].Items, 1)
}

func TestOrderCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedClient(t, s, "alice")
	p := seedProduct(t, s, "pen", 1, 5)
	seedOrder(t, s, c, models.NewOrderItem(p, 1))
	seedOrder(t, s, c, models.NewOrderItem(p, 1))

	byClient, err := s.Orders.CountByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byClient)

	byProduct, err := s.Orders.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byProduct)
}

func TestOrderAllBeyondBoundParameterLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("inserts more orders than sqlite binds in one statement")
	}
	s := newTestStore(t)
	ctx := context.Background()
	client := seedClient(t, s, "bulk")
	product := seedProduct(t, s, "pen", 2, 0)

	const n = 33000
	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{ClientID: client.ID, Date: models.Today()}
	}
	require.NoError(t, s.DB().CreateInBatches(&orders, 1000).Error)

	items := make([]models.OrderItem, n)
	for i, o := range orders {
		items[i] = models.OrderItem{OrderID: o.ID, ProductID: product.ID, Quantity: 1}
	}
	require.NoError(t, s.DB().CreateInBatches(&items, 1000).Error)

	all, err := s.Orders.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for _, o := range []models.Order{all[0], all[n/2], all[n-1]} {
		require.NotNil(t, o.Client)
		assert.Equal(t, "bulk", o.Client.Name)
		require.Len(t, o.Items, 1)
		assert.InDelta(t, 2.0, o.Total(), 1e-9)
	}
}

func TestInChunks(t *testing.T) {
	ids := make([]uint, maxBoundIDs*2+3)
	for i := range ids {
		ids[i] = uint(i + 1)
	}

	var sizes []int
	var seen []uint
	require.NoError(t, inChunks(ids, func(chunk []uint) error {
		sizes = append(sizes, len(chunk))
		seen = append(seen, chunk...)
		return nil
	}))
	assert.Equal(t, []int{maxBoundIDs, maxBoundIDs, 3}, sizes)
	assert.Equal(t, ids, seen)

	assert.NoError(t, inChunks(nil, func([]uint) error {
		t.Fatal("no chunk expected for an empty list")
		return nil
	}))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, distinct([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, distinct(nil))
}
