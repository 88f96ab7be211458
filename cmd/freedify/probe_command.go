package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe TRACK_ID",
		Short: "Inspect the upstream audio for a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				probe, err := client.Probe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, probe)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Codec: %s\n", probe.Codec)
				fmt.Fprintf(out, "Container: %s\n", probe.Container)
				fmt.Fprintf(out, "Lossless: %s\n", yesNo(probe.Lossless))
				if probe.DurationSeconds > 0 {
					fmt.Fprintf(out, "Duration: %.1fs\n", probe.DurationSeconds)
				}
				if probe.SampleRateHz > 0 {
					fmt.Fprintf(out, "Sample rate: %d Hz\n", probe.SampleRateHz)
				}
				if probe.Channels > 0 {
					fmt.Fprintf(out, "Channels: %d\n", probe.Channels)
				}
				if probe.BitRate > 0 {
					fmt.Fprintf(out, "Bitrate: %d bps\n", probe.BitRate)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit probe result as JSON")
	return cmd
}
