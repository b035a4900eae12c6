package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kendall-kelly/shopstore/models"
)

// OrderStore handles persistence of orders and their items. Orders are never
// updated in place.
type OrderStore struct {
	db       *gorm.DB
	products *ProductStore
}

// Add inserts the order row and one row per item in a single transaction and
// writes the generated id back onto o. The client and every product must exist.
func (s *OrderStore) Add(ctx context.Context, o *models.Order) (uint, error) {
	if o.ID != 0 {
		return 0, preassigned("order", o.ID)
	}
	if err := o.Validate(); err != nil {
		return 0, err
	}
	if o.Date.IsZero() {
		o.Date = models.Today()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "clients", "client", o.ClientID); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := requireRow(tx, "products", "product", item.ProductID); err != nil {
				return err
			}
		}

		if err := tx.Create(o).Error; err != nil {
			return storageError("add order", err)
		}
		if len(o.Items) == 0 {
			return nil
		}

		rows := make([]models.OrderItem, len(o.Items))
		for i, item := range o.Items {
			item.OrderID = o.ID
			rows[i] = item
		}
		if err := tx.Create(&rows).Error; err != nil {
			return storageError("add order items", err)
		}
		return nil
	})
	if err != nil {
		o.ID = 0
		return 0, err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return o.ID, nil
}

// Delete removes an order together with its items
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "orders", "order", id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return storageError("delete order items", err)
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return storageError("delete order", err)
		}
		return nil
	})
}

// All returns every order in id order with client and items resolved
func (s *OrderStore) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, storageError("list orders", err)
	}
	if err := s.hydrate(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns one order with client and items resolved
func (s *OrderStore) Get(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, notFound("order", id)
	}
	if err != nil {
		return models.Order{}, storageError("get order", err)
	}

	orders := []models.Order{o}
	if err := s.hydrate(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

// CountByClient returns how many orders reference the client
func (s *OrderStore) CountByClient(ctx context.Context, clientID uint) (int64, error) {
	count, err := countReferences(s.db.WithContext(ctx), "orders", "client_id", clientID)
	if err != nil {
		return 0, storageError("count client orders", err)
	}
	return count, nil
}

// CountByProduct returns how many order items reference the product
func (s *OrderStore) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	count, err := countReferences(s.db.WithContext(ctx), "order_items", "product_id", productID)
	if err != nil {
		return 0, storageError("count product orders", err)
	}
	return count, nil
}

// hydrate attaches clients and items. A dangling client leaves Client nil and
// items whose product no longer resolves are dropped.
func (s *OrderStore) hydrate(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]uint, len(orders))
	clientIDs := make([]uint, 0, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
		clientIDs = append(clientIDs, o.ClientID)
	}

	var items []models.OrderItem
	err := inChunks(orderIDs, func(chunk []uint) error {
		var batch []models.OrderItem
		err := s.db.WithContext(ctx).
			Where("order_id IN ?", chunk).
			Order("order_id, product_id").
			Find(&batch).Error
		if err != nil {
			return storageError("list order items", err)
		}
		items = append(items, batch...)
		return nil
	})
	if err != nil {
		return err
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	clients, err := (&ClientStore{db: s.db}).byIDs(ctx, clientIDs)
	if err != nil {
		return err
	}
	products, err := s.products.byIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	itemsByOrder := make(map[uint][]models.OrderItem, len(orders))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		item.Product = &p
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	for i := range orders {
		if c, ok := clients[orders[i].ClientID]; ok {
			orders[i].Client = &c
		}
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return nil
}
