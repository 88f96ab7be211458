package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
	"freedify/internal/catalog"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search tracks, albums, artists, and concerts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *apiclient.Client) error {
				results, err := client.Search(cmd.Context(), query, kind, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, results)
				}

				out := cmd.OutOrStdout()
				if len(results.Tracks) == 0 && len(results.Albums) == 0 &&
					len(results.Artists) == 0 && len(results.Setlists) == 0 {
					fmt.Fprintf(out, "No results for %q\n", query)
					return nil
				}

				if len(results.Tracks) > 0 {
					rows := make([][]string, 0, len(results.Tracks))
					for _, track := range results.Tracks {
						rows = append(rows, []string{
							track.ID, track.Name, track.Artist, track.Album, track.DurationDisplay(),
						})
					}
					fmt.Fprintln(out, "Tracks")
					fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Artist", "Album", "Length"}, rows, 5))
				}
				if len(results.Albums) > 0 {
					rows := make([][]string, 0, len(results.Albums))
					for _, album := range results.Albums {
						rows = append(rows, []string{
							album.ID, album.Name, album.Artist, album.ReleaseDate,
						})
					}
					fmt.Fprintln(out, "Albums")
					fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Artist", "Released"}, rows))
				}
				if len(results.Artists) > 0 {
					rows := make([][]string, 0, len(results.Artists))
					for _, artist := range results.Artists {
						rows = append(rows, []string{artist.ID, artist.Name, artist.Website})
					}
					fmt.Fprintln(out, "Artists")
					fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Website"}, rows))
				}
				if len(results.Setlists) > 0 {
					fmt.Fprintln(out, "Concerts")
					fmt.Fprintln(out, renderSetlistTable(results.Setlists))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "all", "Result type: all, track, album, artist, setlist")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results per type")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

func renderSetlistTable(setlists []catalog.Setlist) string {
	rows := make([][]string, 0, len(setlists))
	for _, setlist := range setlists {
		rows = append(rows, []string{
			setlist.ID, setlist.Artist, setlist.Venue, setlist.Date, fmt.Sprintf("%d", setlist.SongCount),
		})
	}
	return renderTable([]string{"ID", "Artist", "Venue", "Date", "Songs"}, rows, 5)
}
