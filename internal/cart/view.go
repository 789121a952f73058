package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EmptyMessage is shown in place of rows when the cart has no items.
const EmptyMessage = "Your cart is empty."

// ActionKind names a control rendered next to a row.
type ActionKind string

const (
	ActionDecrement ActionKind = "decrement"
	ActionIncrement ActionKind = "increment"
	ActionRemove    ActionKind = "remove"
)

// Action is a control wired to one item. Item is the stable name key, never a position.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Item  string     `json:"item"`
	Delta int        `json:"delta,omitempty"`
}

// Row is the display model of one line item.
type Row struct {
	Name      string   `json:"name"`
	UnitPrice string   `json:"unit_price"`
	Quantity  int      `json:"quantity"`
	LineTotal string   `json:"line_total"`
	Summary   string   `json:"summary"`
	Controls  []Action `json:"controls"`
}

// View is the full rendered state of a cart.
type View struct {
	Empty      bool   `json:"empty"`
	Message    string `json:"message,omitempty"`
	Rows       []Row  `json:"rows"`
	ItemCount  int    `json:"item_count"`
	Total      string `json:"total"`
	TotalLabel string `json:"total_label"`
}

// Render builds the view of c. It depends on nothing but c, so rendering an
// unchanged cart twice produces identical views.
func Render(c Cart) View {
	if c.IsEmpty() {
		return View{
			Empty:      true,
			Message:    EmptyMessage,
			Rows:       []Row{},
			Total:      FormatMoney(decimal.Zero),
			TotalLabel: "Total: " + FormatMoney(decimal.Zero),
		}
	}

	rows := make([]Row, 0, len(c.Items))
	for _, item := range c.Items {
		unit := FormatMoney(item.UnitPrice)
		line := FormatMoney(item.LineTotal())
		rows = append(rows, Row{
			Name:      item.Name,
			UnitPrice: unit,
			Quantity:  item.Quantity,
			LineTotal: line,
			Summary:   fmt.Sprintf("%s × %d = %s", unit, item.Quantity, line),
			Controls: []Action{
				{Kind: ActionDecrement, Label: "-", Item: item.Name, Delta: -1},
				{Kind: ActionIncrement, Label: "+", Item: item.Name, Delta: 1},
				{Kind: ActionRemove, Label: "Remove", Item: item.Name},
			},
		})
	}

	total := FormatMoney(c.Total())
	return View{
		Rows:       rows,
		ItemCount:  c.Quantity(),
		Total:      total,
		TotalLabel: "Total: " + total,
	}
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
