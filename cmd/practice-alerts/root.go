/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/config"
	"github.com/cristianoliveira/practice-alerts/internal/logging"
	"github.com/spf13/cobra"
)

var (
	debugFlag bool
	quietFlag bool
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd(d deps) *cobra.Command {
	if d.newSession == nil || d.version == nil {
		panic("NewRootCmd: dependencies cannot be nil")
	}

	root := &cobra.Command{
		Use:           "practice-alerts",
		Short:         "Expiration and activity alerts for a dental practice.",
		Long:          `Expiration and activity alerts for a dental practice.`,
		Version:       d.version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := logging.ShutdownGlobal(); err != nil {
				colors.Debug(fmt.Sprintf("logger shutdown: %v", err))
			}
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug output")
	root.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Only print errors")

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == cmd.Root() {
			printHelp(cmd, cmd.OutOrStdout())
			return
		}
		printCommandHelp(cmd, cmd.OutOrStdout())
	})
	root.SetHelpCommand(NewHelpCmd())

	root.AddCommand(
		NewScanCmd(d.newSession),
		NewWatchCmd(d.newSession),
		NewReplayCmd(d.newSession),
		NewVersionCmd(d.version),
	)

	return root
}

// setup loads configuration and the process logger before any command runs.
func setup(cmd *cobra.Command) error {
	config.Load()
	debug := debugFlag || config.GetBool("debug", false)
	colors.SetDebug(debug)
	colors.SetQuiet(quietFlag || config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	// Without a log file, debug runs print component logs to stderr.
	if debug && logging.CurrentLogFile() == "" {
		logging.SetGlobal(logging.NewConsole(cmd.ErrOrStderr(), "debug"))
		colors.SetLogger(nil)
	}
	logging.GetGlobal().Debug("command started", "command", cmd.CommandPath())
	return nil
}
