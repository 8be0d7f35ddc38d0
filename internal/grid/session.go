package grid

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"formprices/internal/components/assert"
	"formprices/internal/render"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// minSimilarity is the Jaro-Winkler score below which a name is not
// considered a match.
const minSimilarity = 0.7

const helpText = `commands:
  list                          show the products passing the filters
  filter price|ppg|thc MIN MAX  restrict a range
  reset                         restore every range
  add RANK|NAME                 put a product in the cart
  remove N                      drop the Nth cart item
  clear                         empty the cart
  cart                          show the cart
  quit                          leave`

var errQuit = errors.New("quit")

// Session drives a Grid from line based input.
type Session struct {
	grid *Grid
	in   *bufio.Scanner
	out  io.Writer
	caps render.Capabilities
}

func NewSession(g *Grid, in io.Reader, out io.Writer, caps render.Capabilities) *Session {
	assert.NotNil(g)
	return &Session{
		grid: g,
		in:   bufio.NewScanner(in),
		out:  out,
		caps: caps,
	}
}

// Run lists the products and then executes commands until quit, EOF or
// ctx is done. Command errors are printed and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	s.list()
	fmt.Fprintln(s.out, "type 'help' for commands")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		err := s.Execute(s.in.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Execute runs a single command line.
func (s *Session) Execute(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "list", "ls":
		s.list()
	case "filter":
		return s.filter(args[1:])
	case "reset":
		s.grid.Reset()
		s.list()
	case "add":
		return s.add(strings.Join(args[1:], " "))
	case "remove", "rm":
		return s.remove(args[1:])
	case "clear":
		s.grid.Cart.Clear()
		s.cart()
	case "cart":
		s.cart()
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, type 'help' for commands", args[0])
	}
	return nil
}

func (s *Session) filter(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: filter price|ppg|thc MIN MAX")
	}
	field, err := ParseField(args[0])
	if err != nil {
		return err
	}
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("parse max: %w", err)
	}
	err = s.grid.SetRange(field, lo, hi)
	if err != nil {
		return err
	}
	s.list()
	return nil
}

// Resolve finds the visible product a query refers to: a rank in the
// current listing, a unique case-insensitive substring of a label, or the
// most similar label.
func (s *Session) Resolve(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("usage: add RANK|NAME")
	}
	visible := s.grid.Visible()

	if rank, err := strconv.Atoi(query); err == nil {
		if rank < 1 || rank > len(visible) {
			return "", fmt.Errorf("no product ranked %d", rank)
		}
		return visible[rank-1].Label, nil
	}

	lowered := strings.ToLower(query)
	var contains []string
	for _, p := range visible {
		if strings.Contains(strings.ToLower(p.Label), lowered) {
			contains = append(contains, p.Label)
		}
	}
	if len(contains) == 1 {
		return contains[0], nil
	}

	best := ""
	bestScore := 0.0
	for _, p := range visible {
		score := matchr.JaroWinkler(lowered, strings.ToLower(p.Label), false)
		if score > bestScore {
			best = p.Label
			bestScore = score
		}
	}
	if bestScore < minSimilarity {
		return "", fmt.Errorf("no product matches %q", query)
	}
	return best, nil
}

func (s *Session) add(query string) error {
	label, err := s.Resolve(query)
	if err != nil {
		return err
	}
	s.grid.Cart.Add(label)
	fmt.Fprintf(s.out, "added %s\n", DisplayName(label))
	fmt.Fprintln(s.out, s.grid.CartSummary())
	return nil
}

func (s *Session) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parse cart item: %w", err)
	}
	err = s.grid.Cart.Remove(n - 1)
	if err != nil {
		return err
	}
	s.cart()
	return nil
}

func (s *Session) list() {
	visible := s.grid.Visible()

	t := render.NewTable(s.out, s.caps)
	t.SetTitle(fmt.Sprintf("Products (Showing %d of %d)", len(visible), s.grid.Total()))
	t.AppendHeader(table.Row{"", "Rank", "Product", "Price", "THC", "CBD", "Size", "£/g", "£/mg THC", "Brand"})
	for i, p := range visible {
		marker := "+"
		if s.grid.Cart.Contains(p.Label) {
			marker = "Y"
		}
		cbd := "<1%"
		if p.CbdPercent != nil {
			cbd = render.Number(p.CbdPercent, 1, "%")
		}
		t.AppendRow(table.Row{
			marker,
			i + 1,
			DisplayName(p.Label),
			render.Number(p.Price, 2, ""),
			render.Number(p.ThcPercent, 1, "%"),
			cbd,
			render.Number(p.WeightGrams, 0, "g"),
			render.Number(p.PricePerGram, 2, ""),
			render.Number(p.PricePerMgThc, 4, ""),
			Brand(p.Label),
		})
	}
	if s.caps.Styled {
		t.Style().Color.RowAlternate = text.Colors{text.Faint}
	}
	t.Render()
}

func (s *Session) cart() {
	lines := s.grid.CartLines()
	for i, line := range lines {
		cost := "Price N/A"
		if line.Cost != nil {
			cost = render.Money(line.Cost, 2)
		}
		fmt.Fprintf(s.out, "%d. %dx %s - %s\n", i+1, line.Quantity, render.Truncate(DisplayName(line.Label), 43), cost)
	}
	fmt.Fprintln(s.out, s.grid.CartSummary())
}
