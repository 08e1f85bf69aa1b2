package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vamg1994/content-creation-vam/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "vam-content", build.String())
		},
	}
}
