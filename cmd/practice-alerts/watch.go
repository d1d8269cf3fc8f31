/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/practice-alerts/internal/app"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(newSession sessionFactory) *cobra.Command {
	if newSession == nil {
		panic("NewWatchCmd: session dependency cannot be nil")
	}

	var (
		watch   watchFlags
		filters filterFlags
		record  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the watchers and print alerts as they land",
		Long: `Run the credential, document and kiosk watchers and print every new
notification until interrupted.

Each watcher scans immediately and then once per interval (watch_interval,
heartbeat_interval in the configuration). With --record, every applied action
is appended to a file that replay can read back.

USAGE:
    practice-alerts watch [OPTIONS]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			provider, err := filters.provider()
			if err != nil {
				return err
			}
			var rec io.Writer
			if record != "" {
				f, err := os.OpenFile(record, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("watch: %w", err)
				}
				defer f.Close()
				rec = f
			}
			return app.NewWatchUseCase().Execute(cmd.Context(), app.WatchOptions{
				Session:        newSession(watch.options()),
				Filter:         filter,
				Search:         filters.search,
				SearchProvider: provider,
				Output:         cmd.OutOrStdout(),
				Record:         rec,
			})
		},
	}

	watch.register(cmd)
	filters.register(cmd)
	cmd.Flags().StringVar(&record, "record", "", "Append every applied action to this JSON-lines file")
	return cmd
}
