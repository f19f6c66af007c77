package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgc202/coingecko-kit/version"
)

func newVersionCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()
			switch output {
			case "json":
				s, err := info.ToJSONIndent()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, s)
				return err
			case "short":
				_, err := fmt.Fprintln(w, info.ShortString())
				return err
			case "text", "":
				_, err := fmt.Fprintln(w, info.Text())
				return err
			default:
				return fmt.Errorf("unknown output format %q (text, json, short)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, short)")
	return cmd
}
