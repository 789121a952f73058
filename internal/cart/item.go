package cart

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single line's quantity.
const MaxQuantity = math.MaxInt32

// LineItem is one product entry. Name is unique within a cart and Quantity is always positive.
type LineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal returns UnitPrice × Quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered list of line items persisted for one profile.
type Cart struct {
	Items []LineItem
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IndexOf returns the position of the item named name, or -1.
func (c Cart) IndexOf(name string) int {
	for i, item := range c.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Total sums the line totals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Quantity sums item quantities.
func (c Cart) Quantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) without(index int) Cart {
	items := make([]LineItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:index]...)
	items = append(items, c.Items[index+1:]...)
	return Cart{Items: items}
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
