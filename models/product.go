package models

import (
	"strconv"
	"strings"
)

// DefaultCategory is assigned to products saved without a category
const DefaultCategory = "General"

// Product represents a stocked item. Quantity is the available stock.
type Product struct {
	ID       uint    `gorm:"primaryKey" json:"id" yaml:"id"`
	Name     string  `gorm:"not null" json:"name" yaml:"name" validate:"notblank"`
	Price    float64 `gorm:"not null" json:"price" yaml:"price" validate:"finite,gte=0"`
	Category string  `gorm:"default:'General'" json:"category" yaml:"category"`
	Quantity int     `gorm:"not null;default:0" json:"quantity" yaml:"quantity" validate:"gte=0"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Normalize fills defaulted fields
func (p *Product) Normalize() {
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
}

// Validate checks the product's fields before it is persisted
func (p Product) Validate() error {
	return validateStruct(p)
}

// ParsePrice parses user input into a price
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, invalid("INVALID_PRICE", "price", "price %q is not a number", s)
	}
	if err := validateValue(price, "finite,gte=0", "price"); err != nil {
		return 0, err
	}
	return price, nil
}

// ParseQuantity parses user input into a stock or order quantity
func ParseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalid("INVALID_QUANTITY", "quantity", "quantity %q is not an integer", s)
	}
	if err := validateValue(qty, "gte=0", "quantity"); err != nil {
		return 0, err
	}
	return qty, nil
}
