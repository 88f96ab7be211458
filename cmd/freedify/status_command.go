package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status, dependencies, and journal health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, status)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				fmt.Fprintln(out, renderSectionHeader("Daemon", colorize))
				runningKind := statusOK
				runningDetail := fmt.Sprintf("pid %d", status.PID)
				if !status.Running {
					runningKind = statusWarn
					runningDetail = "not running"
				}
				fmt.Fprintln(out, renderStatusLine("Freedify", runningKind, runningDetail, colorize))
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))

				fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
				for _, dep := range status.Dependencies {
					kind := statusOK
					detail := dep.Command
					if !dep.Available {
						kind = statusError
						if dep.Optional {
							kind = statusWarn
						}
						detail = dep.Detail
					}
					fmt.Fprintln(out, renderStatusLine(dep.Name, kind, detail, colorize))
				}

				fmt.Fprintln(out, renderSectionHeader("Scrobble Journal", colorize))
				journalKind := statusOK
				if status.Journal.Failed > 0 {
					journalKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Listens", journalKind,
					fmt.Sprintf("%d pending, %d submitted, %d failed",
						status.Journal.Pending, status.Journal.Submitted, status.Journal.Failed), colorize))

				fmt.Fprintln(out, renderSectionHeader("Transcode Cache", colorize))
				fmt.Fprintln(out, renderStatusLine("Cache", statusInfo,
					fmt.Sprintf("%d entries, %s", status.Cache.Entries, humanize.IBytes(uint64(status.Cache.Bytes))), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}
