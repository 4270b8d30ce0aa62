// Package cart implements the storefront cart engine: a name-keyed,
// ordered collection of line items with a derived total, persisted in
// full to a durable store on every mutation.
package cart

import (
	"context"
	"errors"

	"github.com/example/bakeshop/pkg/models"
	"go.uber.org/zap"
)

// ErrInvalidQuantity is returned when Add is called with a quantity
// below 1.
var ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")

// Storage is the durable backing for a cart. Implementations must treat
// a never-saved cart as (nil, nil) on Load.
type Storage interface {
	Save(ctx context.Context, items []models.CartItem) error
	Load(ctx context.Context) ([]models.CartItem, error)
}

// Cart holds one session's line items. It is owned by a single session
// and is not safe for concurrent use. Storage failures are logged and
// swallowed: the in-memory cart keeps working even when persistence is
// down.
type Cart struct {
	items   []models.CartItem
	isOpen  bool
	storage Storage
	logger  *zap.Logger
}

// New builds a cart from the store's last saved state. A missing or
// unreadable saved cart falls back to an empty one.
func New(ctx context.Context, storage Storage, logger *zap.Logger) *Cart {
	c := &Cart{storage: storage, logger: logger}

	items, err := storage.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load saved cart, starting empty", zap.Error(err))
		return c
	}
	c.items = items
	return c
}

// Add merges quantity into an existing entry with the same name, or
// appends a new entry. The cart is marked open so the storefront shows
// it after every add.
func (c *Cart) Add(ctx context.Context, item models.CartItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	merged := false
	for i := range c.items {
		if c.items[i].Name == item.Name {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = quantity
		c.items = append(c.items, item)
	}

	c.isOpen = true
	c.persist(ctx)
	return nil
}

// Increment raises the named item's quantity by one. Unknown names are
// a no-op.
func (c *Cart) Increment(ctx context.Context, name string) {
	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity++
			c.persist(ctx)
			return
		}
	}
}

// Decrement lowers the named item's quantity by one, but never below 1.
// At quantity 1 it is a no-op: removal is a separate, explicit
// operation.
func (c *Cart) Decrement(ctx context.Context, name string) {
	for i := range c.items {
		if c.items[i].Name == name {
			if c.items[i].Quantity > 1 {
				c.items[i].Quantity--
				c.persist(ctx)
			}
			return
		}
	}
}

// Remove deletes the named entry regardless of quantity.
func (c *Cart) Remove(ctx context.Context, name string) {
	for i := range c.items {
		if c.items[i].Name == name {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist(ctx)
			return
		}
	}
}

// Clear empties the cart. Used after a successful order submission.
func (c *Cart) Clear(ctx context.Context) {
	c.items = nil
	c.persist(ctx)
}

// Toggle flips the open/closed visibility flag.
func (c *Cart) Toggle() {
	c.isOpen = !c.isOpen
}

func (c *Cart) IsOpen() bool {
	return c.isOpen
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []models.CartItem {
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total is the sum of price times quantity across all items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Replace swaps the full item list, dropping entries with non-positive
// quantities and merging entries that share a name so the cart keeps at
// most one entry per distinct name. Used when a client syncs its
// locally held cart.
func (c *Cart) Replace(ctx context.Context, items []models.CartItem) {
	c.items = nil
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		merged := false
		for i := range c.items {
			if c.items[i].Name == item.Name {
				c.items[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.items = append(c.items, item)
		}
	}
	c.persist(ctx)
}

func (c *Cart) persist(ctx context.Context) {
	if err := c.storage.Save(ctx, c.items); err != nil {
		c.logger.Warn("Failed to persist cart", zap.Error(err))
	}
}
