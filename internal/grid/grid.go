package grid

import (
	"fmt"
	"strings"

	"formprices/internal/catalog"
)

// Field is a numeric product column the grid can filter on.
type Field int

const (
	FieldPrice Field = iota
	FieldPricePerGram
	FieldThc
)

var fields = []Field{FieldPrice, FieldPricePerGram, FieldThc}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "price":
		return FieldPrice, nil
	case "ppg", "per-gram", "price-per-gram":
		return FieldPricePerGram, nil
	case "thc":
		return FieldThc, nil
	}
	return 0, fmt.Errorf("unknown filter %q, expected price, ppg or thc", s)
}

func (f Field) String() string {
	switch f {
	case FieldPrice:
		return "price"
	case FieldPricePerGram:
		return "price per gram"
	case FieldThc:
		return "THC%"
	}
	return "unknown"
}

func (f Field) value(p catalog.Product) *float64 {
	switch f {
	case FieldPrice:
		return p.Price
	case FieldPricePerGram:
		return p.PricePerGram
	case FieldThc:
		return p.ThcPercent
	}
	return nil
}

// Range is an inclusive bound. A range with Present unset means no product
// has the value and nothing is filtered.
type Range struct {
	Min     float64
	Max     float64
	Present bool
}

// admits is true for missing values, they are never filtered out.
func (r Range) admits(v *float64) bool {
	if !r.Present || v == nil {
		return true
	}
	return *v >= r.Min && *v <= r.Max
}

func observedRange(rows []catalog.Product, f Field) Range {
	var r Range
	for _, p := range rows {
		v := f.value(p)
		if v == nil {
			continue
		}
		if !r.Present {
			r = Range{Min: *v, Max: *v, Present: true}
			continue
		}
		r.Min = min(r.Min, *v)
		r.Max = max(r.Max, *v)
	}
	return r
}

// Grid is a filterable view over the extracted products plus a cart. It
// never modifies the products it is given.
type Grid struct {
	rows     []catalog.Product
	byLabel  map[string]catalog.Product
	observed map[Field]Range
	ranges   map[Field]Range
	Cart     *Cart
}

func New(rows []catalog.Product) *Grid {
	g := &Grid{
		rows:     rows,
		byLabel:  make(map[string]catalog.Product, len(rows)),
		observed: map[Field]Range{},
		ranges:   map[Field]Range{},
		Cart:     NewCart(),
	}
	for _, p := range rows {
		g.byLabel[p.Label] = p
	}
	for _, f := range fields {
		g.observed[f] = observedRange(rows, f)
	}
	g.Reset()
	return g
}

// Reset restores every range to the observed minimum and maximum.
func (g *Grid) Reset() {
	for f, r := range g.observed {
		g.ranges[f] = r
	}
}

func (g *Grid) Range(f Field) Range {
	return g.ranges[f]
}

func (g *Grid) SetRange(f Field, lo, hi float64) error {
	if lo > hi {
		return fmt.Errorf("min %g is greater than max %g", lo, hi)
	}
	if !g.observed[f].Present {
		return fmt.Errorf("no product has a %s", f)
	}
	g.ranges[f] = Range{Min: lo, Max: hi, Present: true}
	return nil
}

// Visible returns the products that pass every range, in their original order.
func (g *Grid) Visible() []catalog.Product {
	out := make([]catalog.Product, 0, len(g.rows))
	for _, p := range g.rows {
		ok := true
		for _, f := range fields {
			if !g.ranges[f].admits(f.value(p)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func (g *Grid) Total() int {
	return len(g.rows)
}

// CartLine is a cart item with its cost, Cost is nil when the product has
// no price.
type CartLine struct {
	CartItem
	Cost *float64
}

func (g *Grid) CartLines() []CartLine {
	items := g.Cart.Items()
	lines := make([]CartLine, len(items))
	for i, item := range items {
		lines[i] = CartLine{CartItem: item}
		if p, ok := g.byLabel[item.Label]; ok && p.Price != nil {
			cost := *p.Price * float64(item.Quantity)
			lines[i].Cost = &cost
		}
	}
	return lines
}

// CartSummary counts every item but only totals priced ones.
func (g *Grid) CartSummary() string {
	items := 0
	total := 0.0
	for _, line := range g.CartLines() {
		items += line.Quantity
		if line.Cost != nil {
			total += *line.Cost
		}
	}
	return fmt.Sprintf("Cart: %d items - £%.2f", items, total)
}
