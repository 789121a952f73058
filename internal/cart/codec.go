package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrCorruptCart marks a stored value that does not decode into a valid cart.
var ErrCorruptCart = errors.New("corrupt cart")

// storedItem is the persisted layout: {"name": string, "price": number, "quantity": number}.
type storedItem struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// Encode serializes the cart into its persisted JSON array form.
func Encode(c Cart) (string, error) {
	stored := make([]storedItem, 0, len(c.Items))
	for _, item := range c.Items {
		stored = append(stored, storedItem{
			Name:     item.Name,
			Price:    json.Number(item.UnitPrice.String()),
			Quantity: item.Quantity,
		})
	}
	raw, err := codec.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(raw), nil
}

// Decode parses a persisted cart. A JSON null is an empty cart; values that
// break the cart invariants yield ErrCorruptCart.
func Decode(raw string) (Cart, error) {
	var stored []storedItem
	if err := codec.UnmarshalFromString(raw, &stored); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	items := make([]LineItem, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, entry := range stored {
		if entry.Name == "" {
			return Cart{}, fmt.Errorf("%w: item %d has no name", ErrCorruptCart, i)
		}
		if _, dup := seen[entry.Name]; dup {
			return Cart{}, fmt.Errorf("%w: duplicate item %q", ErrCorruptCart, entry.Name)
		}
		if entry.Quantity <= 0 || entry.Quantity > MaxQuantity {
			return Cart{}, fmt.Errorf("%w: item %q has quantity %d", ErrCorruptCart, entry.Name, entry.Quantity)
		}
		price, err := ParsePrice(entry.Price.String())
		if err != nil {
			return Cart{}, fmt.Errorf("%w: item %q price %q", ErrCorruptCart, entry.Name, entry.Price)
		}
		seen[entry.Name] = struct{}{}
		items = append(items, LineItem{Name: entry.Name, UnitPrice: price, Quantity: entry.Quantity})
	}
	return Cart{Items: items}, nil
}
