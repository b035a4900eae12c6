package models

// Order represents a checkout by one client. Totals are derived from the
// items and never stored.
type Order struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ClientID uint    `gorm:"not null;index" json:"client_id" validate:"required"`
	Date     Date    `gorm:"type:text;not null" json:"date" validate:"-"`
	Discount float64 `gorm:"not null;default:0" json:"discount" validate:"finite,gte=0,lt=1"` // selects the pricing strategy, 0 means standard

	// Client is nil when the referenced row no longer exists
	Client *Client     `gorm:"-" json:"-" validate:"-"`
	Items  []OrderItem `gorm:"-" json:"items" validate:"dive"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order, keyed by (order_id, product_id)
type OrderItem struct {
	OrderID   uint     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ProductID uint     `gorm:"primaryKey;autoIncrement:false" json:"product_id" validate:"required"`
	Quantity  int      `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,finite,gte=0"` // price captured at checkout, nil on legacy rows

	Product *Product `gorm:"-" json:"-" validate:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem builds an item referencing p
func NewOrderItem(p Product, quantity int) OrderItem {
	return OrderItem{
		ProductID: p.ID,
		Quantity:  quantity,
		Product:   &p,
	}
}

// Price returns the unit price used for totals: the checkout snapshot when
// present, otherwise the live product price.
func (i OrderItem) Price() float64 {
	if i.UnitPrice != nil {
		return *i.UnitPrice
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return 0
}

// Pricing returns the strategy selected by the order's discount
func (o Order) Pricing() PricingFunc {
	if o.Discount == 0 {
		return StandardPricing
	}
	pricing, err := DiscountPricing(o.Discount)
	if err != nil {
		// Out of range discounts never reach storage; fall back rather than panic.
		return StandardPricing
	}
	return pricing
}

// Subtotal sums price × quantity over items whose product resolved
func (o Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		if item.Product == nil {
			continue
		}
		sum += item.Price() * float64(item.Quantity)
	}
	return sum
}

// Total returns the amount due after the order's pricing strategy
func (o Order) Total() float64 {
	return o.Pricing()(o.Subtotal())
}

// Validate checks the order before it is persisted. A product may appear in
// at most one item.
func (o Order) Validate() error {
	if err := validateStruct(o); err != nil {
		return err
	}
	seen := make(map[uint]bool, len(o.Items))
	for _, item := range o.Items {
		if seen[item.ProductID] {
			return invalid("DUPLICATE_PRODUCT", "items", "product %d appears more than once", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}
