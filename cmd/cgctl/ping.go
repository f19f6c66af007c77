package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check API server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, logger, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			msg, err := c.Ping(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}
