package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kendall-kelly/shopstore/models"
)

// ClientStore handles persistence of clients
type ClientStore struct {
	db *gorm.DB
}

// Add inserts c and writes the generated id back onto it
func (s *ClientStore) Add(ctx context.Context, c *models.Client) (uint, error) {
	if c.ID != 0 {
		return 0, preassigned("client", c.ID)
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return 0, storageError("add client", err)
	}
	return c.ID, nil
}

// Update overwrites every field of an existing client
func (s *ClientStore) Update(ctx context.Context, c models.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "clients", "client", c.ID); err != nil {
			return err
		}
		err := tx.Model(&models.Client{}).Where("id = ?", c.ID).Updates(map[string]any{
			"name":    c.Name,
			"email":   c.Email,
			"phone":   c.Phone,
			"address": c.Address,
		}).Error
		if err != nil {
			return storageError("update client", err)
		}
		return nil
	})
}

// Delete removes a client no order refers to. Ids are not compacted.
func (s *ClientStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "clients", "client", id); err != nil {
			return err
		}
		refs, err := countReferences(tx, "orders", "client_id", id)
		if err != nil {
			return storageError("count client orders", err)
		}
		if refs > 0 {
			return conflict("client", id, refs)
		}
		if err := tx.Delete(&models.Client{}, id).Error; err != nil {
			return storageError("delete client", err)
		}
		return nil
	})
}

// All returns every client in id order
func (s *ClientStore) All(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, storageError("list clients", err)
	}
	return clients, nil
}

// Get returns the client with the given id
func (s *ClientStore) Get(ctx context.Context, id uint) (models.Client, error) {
	var c models.Client
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Client{}, notFound("client", id)
	}
	if err != nil {
		return models.Client{}, storageError("get client", err)
	}
	return c, nil
}

// FindByName returns clients whose name contains substr, case-insensitively
func (s *ClientStore) FindByName(ctx context.Context, substr string) ([]models.Client, error) {
	var clients []models.Client
	pattern := "%" + strings.ToLower(substr) + "%"
	if err := s.db.WithContext(ctx).Where("LOWER(name) LIKE ?", pattern).Order("id").Find(&clients).Error; err != nil {
		return nil, storageError("find clients", err)
	}
	return clients, nil
}

func (s *ClientStore) byIDs(ctx context.Context, ids []uint) (map[uint]models.Client, error) {
	ids = distinct(ids)
	found := make(map[uint]models.Client, len(ids))
	err := inChunks(ids, func(chunk []uint) error {
		var clients []models.Client
		if err := s.db.WithContext(ctx).Where("id IN ?", chunk).Find(&clients).Error; err != nil {
			return storageError("resolve clients", err)
		}
		for _, c := range clients {
			found[c.ID] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
