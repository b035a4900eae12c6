package store

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/shopstore/models"
)

// Tables in creation order
var schemaModels = []any{
	&models.Client{},
	&models.Product{},
	&models.Order{},
	&models.OrderItem{},
}

// TableNames lists the managed tables in creation order
var TableNames = []string{"clients", "products", "orders", "order_items"}

// legacyColumn is a column added after the first schema shipped
type legacyColumn struct {
	table      string
	column     string
	definition string
}

var legacyColumns = []legacyColumn{
	{"order_items", "quantity", "INTEGER NOT NULL DEFAULT 1"},
	{"order_items", "unit_price", "REAL"},
	{"orders", "discount", "REAL NOT NULL DEFAULT 0"},
}

// EnsureSchema creates any missing table and adds legacy columns missing from
// databases created by older releases. Safe to call on every startup.
func EnsureSchema(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range schemaModels {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return storageError(fmt.Sprintf("create table for %T", model), err)
		}
	}

	for _, col := range legacyColumns {
		if _, err := EnsureColumn(db, col.table, col.column, col.definition); err != nil {
			return err
		}
	}
	return nil
}

// EnsureColumn adds column to table with the given SQL definition unless it
// already exists. Reports whether the column was added.
func EnsureColumn(db *gorm.DB, table, column, definition string) (bool, error) {
	m := db.Migrator()
	if !m.HasTable(table) {
		return false, storageError("ensure column "+table+"."+column, fmt.Errorf("table %s does not exist", table))
	}
	if m.HasColumn(table, column) {
		return false, nil
	}

	err := db.Exec("ALTER TABLE ? ADD COLUMN ? "+definition, clause.Table{Name: table}, clause.Column{Name: column}).Error
	if err != nil {
		return false, storageError("add column "+table+"."+column, err)
	}
	slog.Info("added missing column", "table", table, "column", column)
	return true, nil
}
