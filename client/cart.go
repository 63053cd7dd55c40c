package client

import "sync"

const cartKey = "cart"

// Cart holds product snapshots picked for checkout and persists them under
// the "cart" key, so a restart keeps the selection.
type Cart struct {
	mu    sync.Mutex
	store Store
	items []Product
}

// NewCart loads any persisted cart from the store.
func NewCart(store Store) (*Cart, error) {
	c := &Cart{store: store}
	if _, err := store.Load(cartKey, &c.items); err != nil {
		return nil, err
	}
	return c, nil
}

// Add appends a product snapshot. Adding the same product twice yields two
// lines, matching how the storefront counts cart items.
func (c *Cart) Add(p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, p)
	return c.store.Save(cartKey, c.items)
}

// Remove drops the first line matching the product id.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return c.store.Save(cartKey, c.items)
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Product, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums the line prices.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.Price
	}
	return total
}

// Reset empties the cart and removes the persisted document.
func (c *Cart) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.store.Clear(cartKey)
}
