// Package store is the persistent data layer: per-kind record stores, the
// schema manager, the id compactor and the checkout builder. Every component
// works on one *gorm.DB handle supplied by the caller.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/shopstore/models"
)

// Store aggregates the record stores of every entity kind.
type Store struct {
	db       *gorm.DB
	Clients  *ClientStore
	Products *ProductStore
	Orders   *OrderStore
}

// New creates a Store bound to db
func New(db *gorm.DB) *Store {
	products := &ProductStore{db: db}
	return &Store{
		db:       db,
		Clients:  &ClientStore{db: db},
		Products: products,
		Orders:   &OrderStore{db: db, products: products},
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Compactor returns a compactor over the same handle
func (s *Store) Compactor() *Compactor {
	return NewCompactor(s.db)
}

// NewCheckout starts an empty checkout against this store
func (s *Store) NewCheckout() *Checkout {
	return &Checkout{store: s, state: StateIdle}
}

// maxBoundIDs caps the ids bound into one IN list. sqlite rejects statements
// with more than 32766 parameters.
const maxBoundIDs = 500

// distinct returns ids without repeats, keeping first occurrences in order
func distinct(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// inChunks calls fn with consecutive slices of ids no longer than maxBoundIDs
func inChunks(ids []uint, fn func(chunk []uint) error) error {
	for start := 0; start < len(ids); start += maxBoundIDs {
		end := min(start+maxBoundIDs, len(ids))
		if err := fn(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func requireRow(tx *gorm.DB, table string, kind string, id uint) error {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return storageError("lookup "+kind, err)
	}
	if count == 0 {
		return notFound(kind, id)
	}
	return nil
}

func countReferences(tx *gorm.DB, table, column string, id uint) (int64, error) {
	var count int64
	err := tx.Table(table).Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).Count(&count).Error
	return count, err
}

func preassigned(kind string, id uint) error {
	return &models.ValidationError{
		Code:    "PREASSIGNED_ID",
		Field:   "id",
		Message: fmt.Sprintf("%s id is assigned by the store, got %d", kind, id),
	}
}
