package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newListensCommand(ctx *commandContext) *cobra.Command {
	var count int
	var user string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "listens",
		Short: "Show the scrobble journal and remote listening history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				listens, err := client.Listens(cmd.Context(), user, count)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, listens)
				}

				out := cmd.OutOrStdout()
				if len(listens.Journal) == 0 && len(listens.Remote) == 0 {
					fmt.Fprintln(out, "No listens recorded yet")
					return nil
				}
				if len(listens.Journal) > 0 {
					rows := make([][]string, 0, len(listens.Journal))
					for _, entry := range listens.Journal {
						rows = append(rows, []string{
							formatListenTime(entry.ListenedAt),
							entry.TrackName,
							entry.ArtistName,
							entry.Status,
						})
					}
					fmt.Fprintln(out, "Journal")
					fmt.Fprintln(out, renderTable([]string{"When", "Track", "Artist", "Status"}, rows))
				}
				if len(listens.Remote) > 0 {
					rows := make([][]string, 0, len(listens.Remote))
					for _, listen := range listens.Remote {
						rows = append(rows, []string{
							formatListenTime(listen.ListenedAt),
							listen.TrackName,
							listen.ArtistName,
						})
					}
					fmt.Fprintln(out, "ListenBrainz history")
					fmt.Fprintln(out, renderTable([]string{"When", "Track", "Artist"}, rows))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 25, "Number of listens to show")
	cmd.Flags().StringVar(&user, "user", "", "ListenBrainz user (defaults to the configured account)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit listens as JSON")
	return cmd
}

func formatListenTime(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).Local().Format("2006-01-02 15:04")
}
