package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/shopstore/logging"
	"github.com/kendall-kelly/shopstore/models"
)

// CheckoutState is the position of a Checkout in its lifecycle
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateClientSelected
	StateItemsSelected
	StateCommitted
	StateRejected
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClientSelected:
		return "client_selected"
	case StateItemsSelected:
		return "items_selected"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("CheckoutState(%d)", int(s))
	}
}

type checkoutLine struct {
	product  models.Product
	quantity int
}

// Checkout builds one order attempt. Commit decrements stock and inserts the
// order in one transaction; either everything is applied or nothing is.
type Checkout struct {
	store    *Store
	state    CheckoutState
	client   *models.Client
	lines    []checkoutLine
	discount float64
	date     models.Date
	reason   error
}

// State returns the current checkout state
func (c *Checkout) State() CheckoutState {
	return c.state
}

// Reason returns why the checkout was rejected, nil otherwise
func (c *Checkout) Reason() error {
	return c.reason
}

func (c *Checkout) closed() bool {
	return c.state == StateCommitted || c.state == StateRejected
}

// SelectClient sets the ordering client, replacing any earlier selection
func (c *Checkout) SelectClient(client models.Client) error {
	if c.closed() {
		return ErrCheckoutClosed
	}
	if client.ID == 0 {
		return &models.ValidationError{Code: "MISSING_CLIENT", Field: "client", Message: "client has no id"}
	}
	c.client = &client
	if c.state == StateIdle {
		c.state = StateClientSelected
	}
	return nil
}

// AddItem requests quantity units of product. Requesting the same product
// twice adds to the earlier quantity. Stock is checked at Commit.
func (c *Checkout) AddItem(product models.Product, quantity int) error {
	if c.closed() {
		return ErrCheckoutClosed
	}
	if c.state == StateIdle {
		return &models.ValidationError{Code: "MISSING_CLIENT", Field: "client", Message: "select a client before adding products"}
	}
	if product.ID == 0 {
		return &models.ValidationError{Code: "MISSING_PRODUCT", Field: "items", Message: "product has no id"}
	}
	if quantity <= 0 {
		return &models.ValidationError{
			Code:    "INVALID_QUANTITY",
			Field:   "items",
			Message: fmt.Sprintf("quantity for %s must be positive, got %d", product.Name, quantity),
		}
	}
	for i := range c.lines {
		if c.lines[i].product.ID == product.ID {
			c.lines[i].quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, checkoutLine{product: product, quantity: quantity})
	c.state = StateItemsSelected
	return nil
}

// SetDiscount selects discounted pricing for the order; 0 restores standard pricing
func (c *Checkout) SetDiscount(fraction float64) error {
	if c.closed() {
		return ErrCheckoutClosed
	}
	if err := models.ValidateDiscount(fraction); err != nil {
		return err
	}
	c.discount = fraction
	return nil
}

// SetDate overrides the order date, which defaults to today
func (c *Checkout) SetDate(d models.Date) error {
	if c.closed() {
		return ErrCheckoutClosed
	}
	c.date = d
	return nil
}

// Commit validates every line against current stock and persists the order.
// On any failure the checkout moves to StateRejected and no stock changes.
func (c *Checkout) Commit(ctx context.Context) (models.Order, error) {
	if c.closed() {
		return models.Order{}, ErrCheckoutClosed
	}
	if c.state != StateItemsSelected {
		return models.Order{}, c.reject(ctx, &models.ValidationError{
			Code:    "EMPTY_ORDER",
			Field:   "items",
			Message: "select a client and at least one product",
		})
	}

	order := models.Order{
		ClientID: c.client.ID,
		Date:     c.date,
		Discount: c.discount,
		Client:   c.client,
	}

	err := c.store.Transaction(ctx, func(tx *Store) error {
		current := make([]models.Product, len(c.lines))
		for i, line := range c.lines {
			p, err := tx.Products.Get(ctx, line.product.ID)
			if err != nil {
				return err
			}
			if line.quantity <= 0 {
				return &models.ValidationError{
					Code:    "INVALID_QUANTITY",
					Field:   "items",
					Message: fmt.Sprintf("quantity for %s must be positive, got %d", p.Name, line.quantity),
				}
			}
			if line.quantity > p.Quantity {
				return &models.ValidationError{
					Code:    "INSUFFICIENT_STOCK",
					Field:   "items",
					Message: fmt.Sprintf("not enough %s in stock: requested %d, available %d", p.Name, line.quantity, p.Quantity),
				}
			}
			current[i] = p
		}

		order.Items = make([]models.OrderItem, len(c.lines))
		for i, line := range c.lines {
			p := current[i]
			price := p.Price
			p.Quantity -= line.quantity
			if err := tx.Products.Update(ctx, p); err != nil {
				return err
			}
			item := models.NewOrderItem(p, line.quantity)
			item.UnitPrice = &price
			order.Items[i] = item
		}

		_, err := tx.Orders.Add(ctx, &order)
		return err
	})
	if err != nil {
		return models.Order{}, c.reject(ctx, err)
	}

	c.state = StateCommitted
	logging.WithFields(ctx, "order_id", order.ID, "client_id", order.ClientID).Info("checkout committed",
		"items", len(order.Items),
		"total", order.Total(),
	)
	return order, nil
}

func (c *Checkout) reject(ctx context.Context, err error) error {
	c.state = StateRejected
	c.reason = err
	if errors.Is(err, ErrStorage) {
		logging.FromContext(ctx).Error("checkout rejected", "error", err)
	} else {
		logging.FromContext(ctx).Info("checkout rejected", "reason", err)
	}
	return err
}
