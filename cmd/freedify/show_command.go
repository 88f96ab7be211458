package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
	"freedify/internal/catalog"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show {track|album|artist|setlist} ID",
		Short: "Show details for a catalog entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := strings.ToLower(strings.TrimSpace(args[0]))
			id := strings.TrimSpace(args[1])
			return ctx.withClient(func(client *apiclient.Client) error {
				switch entity {
				case "track":
					resp, err := client.Track(cmd.Context(), id)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, resp)
					}
					printTrack(cmd, resp.Track)
					return nil
				case "album":
					resp, err := client.Album(cmd.Context(), id)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, resp)
					}
					printAlbum(cmd, resp.Album)
					return nil
				case "artist":
					resp, err := client.Artist(cmd.Context(), id)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, resp)
					}
					printArtist(cmd, resp.Artist)
					return nil
				case "setlist":
					resp, err := client.Setlist(cmd.Context(), id)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, resp)
					}
					printSetlist(cmd, resp.Setlist)
					return nil
				default:
					return fmt.Errorf("unknown entity %q (expected track, album, artist, or setlist)", entity)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit details as JSON")
	return cmd
}

func printTrack(cmd *cobra.Command, track catalog.Track) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", track.Name)
	fmt.Fprintf(out, "  Artist:   %s\n", track.Artist)
	if track.Album != "" {
		fmt.Fprintf(out, "  Album:    %s\n", track.Album)
	}
	fmt.Fprintf(out, "  Length:   %s\n", track.DurationDisplay())
	if track.ReleaseDate != "" {
		fmt.Fprintf(out, "  Released: %s\n", track.ReleaseDate)
	}
	if track.License != "" {
		fmt.Fprintf(out, "  License:  %s\n", track.License)
	}
	fmt.Fprintf(out, "  Format:   %s\n", track.Format)
	if enrichment := track.Enrichment; enrichment != nil {
		if enrichment.Label != "" {
			fmt.Fprintf(out, "  Label:    %s\n", enrichment.Label)
		}
		if len(enrichment.Genres) > 0 {
			fmt.Fprintf(out, "  Genres:   %s\n", strings.Join(enrichment.Genres, ", "))
		}
	}
}

func printAlbum(cmd *cobra.Command, album catalog.Album) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s by %s (%d tracks)\n", album.Name, album.Artist, album.TotalTracks)
	if album.ReleaseDate != "" {
		fmt.Fprintf(out, "  Released: %s\n", album.ReleaseDate)
	}
	if len(album.Tracks) > 0 {
		rows := make([][]string, 0, len(album.Tracks))
		for _, track := range album.Tracks {
			rows = append(rows, []string{
				fmt.Sprintf("%d", track.TrackNumber), track.ID, track.Name, track.DurationDisplay(),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "ID", "Title", "Length"}, rows, 1, 4))
	}
}

func printArtist(cmd *cobra.Command, artist catalog.Artist) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", artist.Name)
	if artist.Website != "" {
		fmt.Fprintf(out, "  Website: %s\n", artist.Website)
	}
	if len(artist.Tracks) > 0 {
		rows := make([][]string, 0, len(artist.Tracks))
		for _, track := range artist.Tracks {
			rows = append(rows, []string{track.ID, track.Name, track.Album, track.DurationDisplay()})
		}
		fmt.Fprintln(out, "Top tracks")
		fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Album", "Length"}, rows, 4))
	}
}

func printSetlist(cmd *cobra.Command, setlist catalog.SetlistDetail) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", setlist.Name)
	if setlist.Venue != "" {
		fmt.Fprintf(out, "  Venue: %s\n", setlist.Venue)
	}
	if setlist.Date != "" {
		fmt.Fprintf(out, "  Date:  %s\n", setlist.Date)
	}
	currentSet := ""
	for _, song := range setlist.Songs {
		if song.SetName != currentSet {
			currentSet = song.SetName
			fmt.Fprintf(out, "\n%s\n", currentSet)
		}
		line := "  " + song.Name
		if song.Cover != "" {
			line += " (" + song.Cover + " cover)"
		}
		if song.With != "" {
			line += " [with " + song.With + "]"
		}
		fmt.Fprintln(out, line)
	}
	if setlist.AudioSource != "" {
		fmt.Fprintf(out, "\nLive audio via %s", setlist.AudioSource)
		if setlist.AudioURL != "" {
			fmt.Fprintf(out, ": %s", setlist.AudioURL)
		} else if setlist.AudioSearch != "" {
			fmt.Fprintf(out, " (search %q)", setlist.AudioSearch)
		}
		fmt.Fprintln(out)
	}
}
