package render

import (
	"fmt"
	"io"

	"formprices/internal/catalog"
	"formprices/internal/scrapers/gravityforms"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a table writer that renders to w.
func NewTable(w io.Writer, caps Capabilities) table.Writer {
	t := table.NewWriter()
	if caps.Styled {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

// limited returns the rows that fit in limit, limit <= 0 means everything.
func limited(rows []catalog.Product, limit int) []catalog.Product {
	if limit <= 0 || limit >= len(rows) {
		return rows
	}
	return rows[:limit]
}

// PlainTable prints product names and prices without any styling.
func PlainTable(w io.Writer, rows []catalog.Product, limit int) {
	t := NewTable(w, Capabilities{})
	t.AppendHeader(table.Row{"Product", "Price"})
	for _, r := range limited(rows, limit) {
		price := ""
		if r.Price != nil {
			price = Money(r.Price, 2)
		}
		t.AppendRow(table.Row{r.Label, price})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(w, "Total unique products: %d\n", len(rows))
}

// StyledTable prints the full set of derived metrics with colours, followed
// by the best value products.
func StyledTable(w io.Writer, rows []catalog.Product, limit int) {
	t := NewTable(w, Capabilities{Styled: true})
	t.SetTitle("Flower Products (Lowest to Highest Price)")

	style := t.Style()
	style.Title.Colors = text.Colors{text.Bold, text.FgGreen}
	style.Color.Header = text.Colors{text.Bold, text.FgWhite, text.BgGreen}
	style.Color.Border = text.Colors{text.FgGreen}
	style.Color.Separator = text.Colors{text.FgGreen}
	style.Color.RowAlternate = text.Colors{text.Faint}

	t.AppendHeader(table.Row{"Rank", "Product", "Price", "THC%", "Size", "£/g", "£/mg THC"})
	for i, r := range limited(rows, limit) {
		t.AppendRow(table.Row{
			i + 1,
			Truncate(r.Label, 60),
			Money(r.Price, 2),
			Number(r.ThcPercent, 0, "%"),
			Size(r.Label),
			Money(r.PricePerGram, 2),
			Money(r.PricePerMgThc, 4),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter, Colors: text.Colors{text.Bold, text.FgCyan}},
		{Number: 2, Colors: text.Colors{text.FgCyan}},
		{Number: 3, Align: text.AlignRight, Colors: text.Colors{text.Bold, text.FgGreen}},
		{Number: 4, Align: text.AlignCenter, Colors: text.Colors{text.FgYellow}},
		{Number: 5, Align: text.AlignCenter, Colors: text.Colors{text.FgBlue}},
		{Number: 6, Align: text.AlignRight, Colors: text.Colors{text.Bold, text.FgMagenta}},
		{Number: 7, Align: text.AlignRight, Colors: text.Colors{text.Bold, text.FgRed}},
	})
	t.Render()

	fmt.Fprintf(w, "\n%s %d\n", text.Colors{text.Bold, text.FgGreen}.Sprint("Total products found:"), len(rows))
	if limit > 0 && len(rows) > limit {
		fmt.Fprintln(w, text.Faint.Sprintf("Showing first %d items. Use --limit 0 or remove --limit to show all.", limit))
	}

	BestValue(w, rows)
}

// BestValue prints the cheapest product per gram and per milligram of THC,
// lines are omitted when no product has the metric.
func BestValue(w io.Writer, rows []catalog.Product) {
	fmt.Fprintf(w, "\n%s\n", text.Colors{text.Bold, text.FgYellow}.Sprint("Best Value Analysis:"))

	if best, ok := minBy(rows, func(p catalog.Product) *float64 { return p.PricePerGram }); ok {
		fmt.Fprintf(
			w, "%s %s - £%.2f/g\n",
			text.FgGreen.Sprint("Cheapest per gram:"),
			Truncate(best.Label, 53),
			*best.PricePerGram,
		)
	}
	if best, ok := minBy(rows, func(p catalog.Product) *float64 { return p.PricePerMgThc }); ok {
		fmt.Fprintf(
			w, "%s %s - £%.4f/mg THC\n",
			text.FgGreen.Sprint("Best THC value:"),
			Truncate(best.Label, 53),
			*best.PricePerMgThc,
		)
	}
}

// minBy returns the first product with the smallest non-nil metric.
func minBy(rows []catalog.Product, metric func(catalog.Product) *float64) (catalog.Product, bool) {
	var best catalog.Product
	found := false
	for _, r := range rows {
		v := metric(r)
		if v == nil {
			continue
		}
		if !found || *v < *metric(best) {
			best = r
			found = true
		}
	}
	return best, found
}

// DropdownTable lists the dropdowns found by the inspector.
func DropdownTable(w io.Writer, caps Capabilities, dropdowns []gravityforms.Dropdown) {
	t := NewTable(w, caps)
	t.AppendHeader(table.Row{"#", "Name", "Id", "Label", "Classes", "Marked", "Targeted", "Options"})
	for i, d := range dropdowns {
		t.AppendRow(table.Row{i + 1, d.Name, d.Id, Truncate(d.Label, 40), d.Classes, yesNo(d.Marked), yesNo(d.Targeted), d.Options})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
