package commands

import (
	"fmt"

	"formprices/internal/render"
	"formprices/internal/scrapers/gravityforms"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Lists every dropdown of the form, useful when the field names changed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := getState(ctx)

		document, err := s.Fetcher.FormFetch(ctx, s.Url)
		if err != nil {
			return err
		}
		dropdowns, err := gravityforms.InspectDropdowns(document, s.Config.Identity())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(dropdowns) == 0 {
			fmt.Fprintln(out, "No dropdowns found, the form may need a browser to render.")
			return nil
		}
		render.DropdownTable(out, s.Caps, dropdowns)

		targeted := 0
		for _, d := range dropdowns {
			if d.Targeted {
				targeted++
			}
		}
		if targeted == 0 {
			fmt.Fprintln(out, "None of the dropdowns are targeted, update form.field_names/form.field_ids in the config or use --all-selects.")
		}
		return nil
	},
}
