/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/practice-alerts/internal/app"
	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/session"
	"github.com/spf13/cobra"
)

// NewReplayCmd creates the replay command with explicit dependencies.
func NewReplayCmd(newSession sessionFactory) *cobra.Command {
	if newSession == nil {
		panic("NewReplayCmd: session dependency cannot be nil")
	}

	var (
		filters filterFlags
		output  outputFlags
		strict  bool
		noHooks bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Apply a JSON-lines action log and print the feed",
		Long: `Apply a JSON-lines action log in order and print the resulting feed.
Use - to read from stdin.

Each line is one action, for example:
    {"type":"ADD_NOTIFICATION","payload":{"id":"1","type":"task","title":"Restock gloves"}}
    {"type":"MARK_AS_READ","payload":"1"}

USAGE:
    practice-alerts replay <file> [OPTIONS]`,
		Args: cobra.ExactArgs(1),
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

			var input io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("replay: %w", err)
				}
				defer f.Close()
				input = f
			}

			opts := session.Options{}
			if !noHooks {
				opts.Hooks = session.OptionsFromConfig().Hooks
			}
			s := newSession(opts)
			defer func() { _ = s.Close() }()

			result, err := app.NewReplayUseCase().Execute(cmd.Context(), app.ReplayOptions{
				Bus:            s.Bus(),
				Input:          input,
				Formatter:      formatter,
				Filter:         filter,
				Search:         filters.search,
				SearchProvider: provider,
				Sort:           sortOpts,
				UnreadFirst:    output.unreadFirst,
				Output:         cmd.OutOrStdout(),
				Strict:         strict,
			})
			colors.Debug(fmt.Sprintf("replayed %d action(s): %d accepted, %d rejected", result.Lines, result.Accepted, result.Rejected))
			return err
		},
	}

	filters.register(cmd)
	output.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first rejected action")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Do not run hooks")
	return cmd
}
