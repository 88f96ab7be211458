package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newRecommendationsCommand(ctx *commandContext) *cobra.Command {
	var count int
	var user string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Show ListenBrainz track recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				recs, err := client.Recommendations(cmd.Context(), user, count)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, recs)
				}
				out := cmd.OutOrStdout()
				if len(recs.Tracks) == 0 {
					fmt.Fprintln(out, "No recommendations available")
					return nil
				}
				rows := make([][]string, 0, len(recs.Tracks))
				for _, track := range recs.Tracks {
					rows = append(rows, []string{track.ID, track.Name, track.Artist, track.Album})
				}
				fmt.Fprintln(out, renderTable([]string{"MBID", "Title", "Artist", "Release"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of recommendations to show")
	cmd.Flags().StringVar(&user, "user", "", "ListenBrainz user (defaults to the configured account)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit recommendations as JSON")
	return cmd
}
