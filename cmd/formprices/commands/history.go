package commands

import (
	"errors"
	"fmt"
	"time"

	"formprices/internal/render"
	"formprices/internal/snapshots"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string

func init() {
	historyDb = historyCmd.Flags().String("db", "", "Sqlite file or libsql url the snapshots were recorded in (default: snapshots from the config).")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db prices.db] [product substring]",
	Short: "Prints the recorded prices of every product matching the substring.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := getState(ctx)

		dbConfig := snapshotConfig(s, *historyDb)
		if !dbConfig.Configured() {
			return errors.New("pass --db or set snapshots in the config")
		}
		store, err := snapshots.Open(dbConfig, s.Tel)
		if err != nil {
			return err
		}
		defer store.Close()

		substring := ""
		if len(args) == 1 {
			substring = args[0]
		}
		series, err := store.Pull(ctx, substring)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(series) == 0 {
			fmt.Fprintf(out, "No snapshots match %q\n", substring)
			return nil
		}
		for _, ser := range series {
			t := render.NewTable(out, s.Caps)
			t.SetTitle(ser.Label)
			t.AppendHeader(table.Row{"Date", "Price", "£/g", "£/mg THC"})
			for _, p := range ser.Points {
				t.AppendRow(table.Row{
					p.Time.Format(time.DateTime),
					render.Money(p.Price, 2),
					render.Money(p.PricePerGram, 2),
					render.Money(p.PricePerMgThc, 4),
				})
			}
			t.Render()
		}
		return nil
	},
}
