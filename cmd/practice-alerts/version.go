/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(version func() string) *cobra.Command {
	if version == nil {
		panic("NewVersionCmd: version dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of practice-alerts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "practice-alerts version %s\n", version())
			return nil
		},
	}
}
