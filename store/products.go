package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kendall-kelly/shopstore/models"
)

// ProductStore handles persistence of products and their stock
type ProductStore struct {
	db *gorm.DB
}

// Add inserts p and writes the generated id back onto it
func (s *ProductStore) Add(ctx context.Context, p *models.Product) (uint, error) {
	if p.ID != 0 {
		return 0, preassigned("product", p.ID)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, storageError("add product", err)
	}
	return p.ID, nil
}

// Update overwrites every field of an existing product, stock included
func (s *ProductStore) Update(ctx context.Context, p models.Product) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "products", "product", p.ID); err != nil {
			return err
		}
		err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":     p.Name,
			"price":    p.Price,
			"category": p.Category,
			"quantity": p.Quantity,
		}).Error
		if err != nil {
			return storageError("update product", err)
		}
		return nil
	})
}

// Delete removes a product no order item refers to. Ids are not compacted.
func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "products", "product", id); err != nil {
			return err
		}
		refs, err := countReferences(tx, "order_items", "product_id", id)
		if err != nil {
			return storageError("count product orders", err)
		}
		if refs > 0 {
			return conflict("product", id, refs)
		}
		if err := tx.Delete(&models.Product{}, id).Error; err != nil {
			return storageError("delete product", err)
		}
		return nil
	})
}

// All returns every product in id order
func (s *ProductStore) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, storageError("list products", err)
	}
	return products, nil
}

// Get returns the product with the given id
func (s *ProductStore) Get(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, notFound("product", id)
	}
	if err != nil {
		return models.Product{}, storageError("get product", err)
	}
	return p, nil
}

// FindByName returns products whose name contains substr, case-insensitively
func (s *ProductStore) FindByName(ctx context.Context, substr string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + strings.ToLower(substr) + "%"
	if err := s.db.WithContext(ctx).Where("LOWER(name) LIKE ?", pattern).Order("id").Find(&products).Error; err != nil {
		return nil, storageError("find products", err)
	}
	return products, nil
}

func (s *ProductStore) byIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	ids = distinct(ids)
	found := make(map[uint]models.Product, len(ids))
	err := inChunks(ids, func(chunk []uint) error {
		var products []models.Product
		if err := s.db.WithContext(ctx).Where("id IN ?", chunk).Find(&products).Error; err != nil {
			return storageError("resolve products", err)
		}
		for _, p := range products {
			found[p.ID] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
