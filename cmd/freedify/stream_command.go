package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newStreamCommand(ctx *commandContext) *cobra.Command {
	var format string
	var bitrate int

	cmd := &cobra.Command{
		Use:   "stream TRACK_ID",
		Short: "Print the playback URL for a track",
		Long: "Prints the daemon URL that streams the transcoded track so it " +
			"can be handed to mpv, vlc, or any player that accepts a URL.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				// Confirm the track exists before printing a URL.
				if _, err := client.Track(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), client.StreamURL(args[0], format, bitrate))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: mp3, ogg, or opus")
	cmd.Flags().IntVarP(&bitrate, "bitrate", "b", 0, "Output bitrate in kbps")
	return cmd
}
