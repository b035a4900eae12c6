package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/shopstore/logging"
)

// Kind names an entity kind whose ids can be compacted
type Kind string

const (
	KindClients  Kind = "clients"
	KindProducts Kind = "products"
	KindOrders   Kind = "orders"
)

// Kinds lists every compactable kind
var Kinds = []Kind{KindClients, KindProducts, KindOrders}

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q, expected one of clients, products, orders", s)
}

// foreignKey is a column in another table holding ids of the compacted kind
type foreignKey struct {
	table  string
	column string
}

var dependents = map[Kind][]foreignKey{
	KindClients:  {{"orders", "client_id"}},
	KindProducts: {{"order_items", "product_id"}},
	KindOrders:   {{"order_items", "order_id"}},
}

// ReindexResult describes one compaction pass
type ReindexResult struct {
	Kind          Kind
	Rows          int
	Renamed       int
	SequenceReset bool
}

// Compactor renumbers ids to 1..N after deletions, carrying every foreign key along
type Compactor struct {
	db *gorm.DB
}

// NewCompactor creates a compactor over db
func NewCompactor(db *gorm.DB) *Compactor {
	return &Compactor{db: db}
}

// Reindex compacts the ids of kind in one transaction. Renamed rows are first
// moved to the negative of their new id, together with their foreign keys, so
// that no rename collides with a surviving row; afterwards every negative
// marker is flipped back. The autoincrement counter is then set to the row count.
// A foreign key pointing at no existing row would be captured by whichever row
// is renamed into that id, so such a pass is refused with ErrReferentialConflict.
func (c *Compactor) Reindex(ctx context.Context, kind Kind) (ReindexResult, error) {
	deps, ok := dependents[kind]
	if !ok {
		return ReindexResult{}, fmt.Errorf("unknown kind %q", kind)
	}
	table := string(kind)
	result := ReindexResult{Kind: kind}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Table(table).Order("id").Pluck("id", &ids).Error; err != nil {
			return storageError("read "+table+" ids", err)
		}
		result.Rows = len(ids)

		for _, fk := range deps {
			missing, err := orphans(tx, table, fk)
			if err != nil {
				return storageError("check "+fk.table+"."+fk.column, err)
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s.%s holds ids missing from %s: %v",
					ErrReferentialConflict, fk.table, fk.column, table, missing)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		for i, oldID := range ids {
			newID := int64(i + 1)
			if newID == oldID {
				continue
			}
			for _, fk := range deps {
				if err := stage(tx, fk.table, fk.column, oldID, -newID); err != nil {
					return storageError("stage "+fk.table+"."+fk.column, err)
				}
			}
			if err := stage(tx, table, "id", oldID, -newID); err != nil {
				return storageError("stage "+table+".id", err)
			}
			result.Renamed++
		}

		if result.Renamed > 0 {
			for _, fk := range deps {
				if err := flip(tx, fk.table, fk.column); err != nil {
					return storageError("flip "+fk.table+"."+fk.column, err)
				}
			}
			if err := flip(tx, table, "id"); err != nil {
				return storageError("flip "+table+".id", err)
			}
		}

		result.SequenceReset = resetSequence(tx, table, len(ids))
		return nil
	})
	if err != nil {
		return ReindexResult{}, err
	}

	logging.WithFields(ctx, "kind", kind).Info("reindex completed",
		"rows", result.Rows,
		"renamed", result.Renamed,
		"sequence_reset", result.SequenceReset,
	)
	return result, nil
}

// ReindexAll compacts every kind, each in its own transaction
func (c *Compactor) ReindexAll(ctx context.Context) ([]ReindexResult, error) {
	results := make([]ReindexResult, 0, len(Kinds))
	for _, kind := range Kinds {
		res, err := c.Reindex(ctx, kind)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// orphans lists the distinct values of fk that match no id in table
func orphans(tx *gorm.DB, table string, fk foreignKey) ([]int64, error) {
	col := "d." + fk.column
	var missing []int64
	err := tx.Table(fk.table+" AS d").
		Joins("LEFT JOIN "+table+" AS p ON p.id = "+col).
		Where("p.id IS NULL").
		Distinct(col).
		Order(col).
		Pluck(col, &missing).Error
	return missing, err
}

func stage(tx *gorm.DB, table, column string, from, to int64) error {
	col := clause.Column{Name: column}
	return tx.Exec("UPDATE ? SET ? = ? WHERE ? = ?", clause.Table{Name: table}, col, to, col, from).Error
}

func flip(tx *gorm.DB, table, column string) error {
	col := clause.Column{Name: column}
	return tx.Exec("UPDATE ? SET ? = -? WHERE ? < 0", clause.Table{Name: table}, col, col, col).Error
}

// resetSequence points the autoincrement counter of table at n. It runs under
// a savepoint so a missing sequence object leaves the transaction usable.
func resetSequence(tx *gorm.DB, table string, n int) bool {
	var sql string
	switch tx.Dialector.Name() {
	case "sqlite":
		sql = "UPDATE sqlite_sequence SET seq = ? WHERE name = ?"
	case "postgres":
		sql = "SELECT setval(pg_get_serial_sequence(?, 'id'), ?)"
	default:
		return false
	}

	const savepoint = "reset_sequence"
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return false
	}

	var err error
	if tx.Dialector.Name() == "postgres" {
		err = tx.Exec(sql, table, n).Error
	} else {
		err = tx.Exec(sql, n, table).Error
	}
	if err != nil {
		tx.RollbackTo(savepoint)
		return false
	}
	return true
}
