package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freedify/internal/api"
	"freedify/internal/apiclient"
)

func newScrobbleCommand(ctx *commandContext) *cobra.Command {
	var artist string
	var album string
	var trackID string
	var durationMS int64
	var playingNow bool

	cmd := &cobra.Command{
		Use:   "scrobble TRACK_NAME",
		Short: "Record a listen or announce the playing track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(artist) == "" {
				return errors.New("--artist is required")
			}
			request := api.ListenRequest{
				TrackID:    trackID,
				TrackName:  strings.Join(args, " "),
				ArtistName: artist,
				AlbumName:  album,
				DurationMS: durationMS,
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				out := cmd.OutOrStdout()
				if playingNow {
					if _, err := client.PlayingNow(cmd.Context(), request); err != nil {
						return err
					}
					fmt.Fprintf(out, "Now playing: %s by %s\n", request.TrackName, request.ArtistName)
					return nil
				}
				ack, err := client.SubmitListen(cmd.Context(), request)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Listen journaled (%s)\n", ack.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&artist, "artist", "", "Artist name (required)")
	cmd.Flags().StringVar(&album, "album", "", "Album name")
	cmd.Flags().StringVar(&trackID, "track-id", "", "Catalog track identifier")
	cmd.Flags().Int64Var(&durationMS, "duration-ms", 0, "Track length in milliseconds")
	cmd.Flags().BoolVar(&playingNow, "now", false, "Announce as playing now instead of journaling")
	return cmd
}
