package storefront

import (
	"github.com/shopspring/decimal"
)

// LineItem is a product held in the cart together with its quantity (always >= 1).
type LineItem struct {
	Product  Product
	Quantity int
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart keeps at most one LineItem per product id, in insertion order.
// It is not safe for concurrent use; Session serializes access.
type Cart struct {
	items    []LineItem
	index    map[int64]int
	revision uint64
}

func NewCart() *Cart {
	return &Cart{index: map[int64]int{}}
}

// Add merges into an existing line (quantity + 1) or appends a new line with quantity 1.
func (c *Cart) Add(p Product) {
	if i, ok := c.index[p.ID]; ok {
		c.items[i].Quantity++
	} else {
		c.index[p.ID] = len(c.items)
		c.items = append(c.items, LineItem{Product: p, Quantity: 1})
	}
	c.revision++
}

// Remove deletes the line for productID. Absent ids are ignored.
func (c *Cart) Remove(productID int64) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].Product.ID] = j
	}
	c.revision++
}

// SetQuantity replaces a line's quantity; anything below 1 removes the line.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		c.Remove(productID)
		return
	}
	i, ok := c.index[productID]
	if !ok || c.items[i].Quantity == quantity {
		return
	}
	c.items[i].Quantity = quantity
	c.revision++
}

// Quantity returns the held quantity for productID.
func (c *Cart) Quantity(productID int64) (int, bool) {
	i, ok := c.index[productID]
	if !ok {
		return 0, false
	}
	return c.items[i].Quantity, true
}

// ItemCount is the sum of all quantities, used for the cart badge.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	return subtotalOf(c.items)
}

// Items returns a copy of the lines in display order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear drops every line.
func (c *Cart) Clear() {
	if len(c.items) == 0 {
		return
	}
	c.items = nil
	c.index = map[int64]int{}
	c.revision++
}

// Revision increases on every mutation. Drafts remember it to detect stale submissions.
func (c *Cart) Revision() uint64 {
	return c.revision
}
