package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "token TOKEN",
		Short: "Validate a ListenBrainz user token and apply it to the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				result, err := client.ValidateToken(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !result.Valid {
					fmt.Fprintln(out, "Token is invalid")
					return nil
				}
				fmt.Fprintf(out, "Token is valid for user %s and now in use by the daemon\n", result.UserName)
				return nil
			})
		},
	}
}
