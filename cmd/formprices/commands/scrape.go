package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"formprices/internal/catalog"
	"formprices/internal/components/chrono"
	"formprices/internal/export"
	"formprices/internal/grid"
	"formprices/internal/render"
	"formprices/internal/snapshots"
	configlibsql "formprices/lib/configutil/libsql"

	"github.com/spf13/cobra"
)

var (
	scrapeCsv         *string
	scrapeJson        *string
	scrapeLimit       *int
	scrapeRichTable   *bool
	scrapeSimpleTable *bool
	scrapeGui         *bool
	scrapeDb          *string
)

func init() {
	flags := scrapeCmd.Flags()
	scrapeCsv = flags.String("csv", "", "Write the results to a CSV file.")
	scrapeJson = flags.String("json", "", "Write the results to a JSON file.")
	scrapeLimit = flags.Int("limit", 0, "Limit the rows printed, 0 prints everything.")
	scrapeRichTable = flags.Bool("rich-table", false, "Print the styled table without asking.")
	scrapeSimpleTable = flags.Bool("simple-table", false, "Print the plain table without asking.")
	scrapeGui = flags.Bool("gui", false, "Browse the results in the interactive grid.")
	scrapeDb = flags.String("db", "", "Record a price snapshot in this sqlite file or libsql url.")
	rootCmd.AddCommand(scrapeCmd)
}

type displayMode int

const (
	displayPlain displayMode = iota
	displayStyled
	displayGrid
	displayAsk
)

type displayFlags struct {
	Gui, Rich, Simple bool
}

// chooseDisplay picks the presentation, explicit flags win in the order
// grid, styled, plain. Without flags the user is asked when they can answer
// and styling is possible.
func chooseDisplay(flags displayFlags, caps render.Capabilities) displayMode {
	switch {
	case flags.Gui:
		return displayGrid
	case flags.Rich:
		return displayStyled
	case flags.Simple:
		return displayPlain
	case caps.Interactive && caps.Styled:
		return displayAsk
	}
	return displayPlain
}

// askStyled asks whether to print the styled table until it gets a yes or
// no. EOF counts as no.
func askStyled(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nWould you like to display the results in a nice rendered table? (y/n): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(out, "Please enter 'y' for yes or 'n' for no.")
	}
}

func snapshotConfig(s *state, dsn string) configlibsql.Struct {
	if dsn != "" {
		return configlibsql.FromDSN(dsn)
	}
	return s.Config.Snapshots
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--csv out.csv] [--json out.json] [--limit N] [--rich-table|--simple-table|--gui] [--db prices.db]",
	Short: "Fetches the form and prints its products ordered by price.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := getState(ctx)

		slog.Info("fetching products", "url", s.Url)
		res, err := s.Extractor.Extract(ctx, s.Url)
		if errors.Is(err, catalog.ErrEmptyResult) && s.Extractor.FlowerOnly {
			return fmt.Errorf("%w, --all-products keeps non-flower products", err)
		}
		if err != nil {
			return err
		}
		if res.UsedWildcard && !s.Extractor.Wildcard {
			slog.Info("found products using --all-selects mode", "count", len(res.Products))
		}
		rows := res.Products

		stdout := cmd.OutOrStdout()
		mode := chooseDisplay(displayFlags{
			Gui:    *scrapeGui,
			Rich:   *scrapeRichTable,
			Simple: *scrapeSimpleTable,
		}, s.Caps)
		if mode == displayAsk {
			mode = displayPlain
			if askStyled(cmd.InOrStdin(), stdout) {
				mode = displayStyled
			}
		}

		switch mode {
		case displayGrid:
			if !s.Caps.Interactive {
				return errors.New("--gui needs an interactive terminal")
			}
			err = grid.NewSession(grid.New(rows), cmd.InOrStdin(), stdout, s.Caps).Run(ctx)
			if err != nil {
				return err
			}
		case displayStyled:
			render.StyledTable(stdout, rows, *scrapeLimit)
		default:
			render.PlainTable(stdout, rows, *scrapeLimit)
		}

		if *scrapeCsv != "" {
			err = export.WriteCSV(*scrapeCsv, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Wrote CSV: %s\n", *scrapeCsv)
		}
		if *scrapeJson != "" {
			err = export.WriteJSON(*scrapeJson, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Wrote JSON: %s\n", *scrapeJson)
		}

		if *scrapeDb != "" {
			store, err := snapshots.Open(snapshotConfig(s, *scrapeDb), s.Tel)
			if err != nil {
				return err
			}
			defer store.Close()

			err = store.Push(ctx, chrono.NewStandardTime().Now(), rows)
			if err != nil {
				return fmt.Errorf("record snapshot: %w", err)
			}
			fmt.Fprintf(stdout, "Recorded snapshot of %d products\n", len(rows))
		}
		return nil
	},
}
