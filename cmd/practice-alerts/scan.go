/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/practice-alerts/internal/app"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command with explicit dependencies.
func NewScanCmd(newSession sessionFactory) *cobra.Command {
	if newSession == nil {
		panic("NewScanCmd: session dependency cannot be nil")
	}

	var (
		watch   watchFlags
		filters filterFlags
		output  outputFlags
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan rosters once and print the alerts",
		Long: `Scan the credential, document and kiosk rosters once and print the feed.

USAGE:
    practice-alerts scan [OPTIONS]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.formatter()
			if err != nil {
				return err
			}
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			provider, err := filters.provider()
			if err != nil {
				return err
			}
			sortOpts, err := output.sortOptions()
			if err != nil {
				return err
			}

			s := newSession(watch.options())
			defer func() { _ = s.Close() }()

			_, err = app.NewScanUseCase().Execute(cmd.Context(), app.ScanOptions{
				Session:        s,
				Formatter:      formatter,
				Filter:         filter,
				Search:         filters.search,
				SearchProvider: provider,
				Sort:           sortOpts,
				UnreadFirst:    output.unreadFirst,
				Output:         cmd.OutOrStdout(),
			})
			return err
		},
	}

	watch.register(cmd)
	filters.register(cmd)
	output.register(cmd)
	return cmd
}
