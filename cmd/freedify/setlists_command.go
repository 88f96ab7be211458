package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newSetlistsCommand(ctx *commandContext) *cobra.Command {
	var page int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "setlists QUERY",
		Short: "Search concert setlists",
		Long: "Searches Setlist.fm by artist, optionally filtered by a date " +
			"embedded in the query, e.g. \"phish 1997-11-22\" or \"pearl jam 1994\".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *apiclient.Client) error {
				results, err := client.Setlists(cmd.Context(), query, page)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, results)
				}
				out := cmd.OutOrStdout()
				if len(results.Setlists) == 0 {
					fmt.Fprintf(out, "No concerts found for %q\n", query)
					return nil
				}
				fmt.Fprintln(out, renderSetlistTable(results.Setlists))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}
