package exchange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kendall-kelly/shopstore/models"
)

// orderRecord is the file representation of an order. Items refer to
// products by id only.
type orderRecord struct {
	ID       uint         `json:"id" yaml:"id"`
	ClientID uint         `json:"client_id" yaml:"client_id"`
	Date     string       `json:"date" yaml:"date"`
	Discount float64      `json:"discount,omitempty" yaml:"discount,omitempty"`
	Items    []itemRecord `json:"items" yaml:"items"`
}

type itemRecord struct {
	ProductID uint     `json:"product_id" yaml:"product_id"`
	Quantity  int      `json:"quantity" yaml:"quantity"`
	UnitPrice *float64 `json:"unit_price,omitempty" yaml:"unit_price,omitempty"`
}

func newOrderRecord(o models.Order) orderRecord {
	rec := orderRecord{
		ID:       o.ID,
		ClientID: o.ClientID,
		Date:     o.Date.String(),
		Discount: o.Discount,
		Items:    make([]itemRecord, len(o.Items)),
	}
	for i, item := range o.Items {
		rec.Items[i] = itemRecord{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return rec
}

// formatItems renders items as "pid:qty;pid:qty@price". The price suffix is
// present only on items carrying a unit price snapshot.
func formatItems(items []itemRecord) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d:%d", item.ProductID, item.Quantity)
		if item.UnitPrice != nil {
			parts[i] += "@" + strconv.FormatFloat(*item.UnitPrice, 'f', -1, 64)
		}
	}
	return strings.Join(parts, ";")
}

// parseItems reads the cell written by formatItems
func parseItems(cell string) ([]itemRecord, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	var items []itemRecord
	for _, part := range strings.Split(cell, ";") {
		pid, qty, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fileError("INVALID_ITEMS", "item %q is not in product_id:quantity form", part)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(pid), 10, 64)
		if err != nil {
			return nil, fileError("INVALID_ITEMS", "item %q has a non-numeric product id", part)
		}
		qty, price, priced := strings.Cut(qty, "@")
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fileError("INVALID_ITEMS", "item %q has a non-numeric quantity", part)
		}
		item := itemRecord{ProductID: uint(id), Quantity: n}
		if priced {
			p, err := models.ParsePrice(price)
			if err != nil {
				return nil, fileError("INVALID_ITEMS", "item %q has an invalid unit price", part)
			}
			item.UnitPrice = &p
		}
		items = append(items, item)
	}
	return items, nil
}
