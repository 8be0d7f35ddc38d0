package grid

import (
	"fmt"
	"slices"
)

// Cart maps product labels to quantities and remembers the order they were
// first added in.
type Cart struct {
	labels     []string
	quantities map[string]int
}

func NewCart() *Cart {
	return &Cart{quantities: map[string]int{}}
}

type CartItem struct {
	Label    string
	Quantity int
}

// Add puts one more of label in the cart.
func (c *Cart) Add(label string) {
	if _, ok := c.quantities[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.quantities[label]++
}

// Remove drops the item at index (in Items order) entirely.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.labels) {
		return fmt.Errorf("no cart item %d", index+1)
	}
	delete(c.quantities, c.labels[index])
	c.labels = slices.Delete(c.labels, index, index+1)
	return nil
}

func (c *Cart) Clear() {
	c.labels = nil
	clear(c.quantities)
}

func (c *Cart) Contains(label string) bool {
	_, ok := c.quantities[label]
	return ok
}

func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.labels))
	for i, label := range c.labels {
		items[i] = CartItem{Label: label, Quantity: c.quantities[label]}
	}
	return items
}

func (c *Cart) Len() int {
	return len(c.labels)
}
