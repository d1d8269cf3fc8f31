package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	helpHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpText    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// commandOrder is the order commands are listed in help.
var commandOrder = []string{
	"scan",
	"watch",
	"replay",
	"help",
	"version",
}

func printHelp(root *cobra.Command, w io.Writer) {
	var lines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("    %s %s",
			helpCommand.Render(fmt.Sprintf("%-16s", found.Use)),
			helpText.Render(found.Short)))
	}

	versionStr := root.Version
	if versionStr == "" {
		versionStr = "0.0.0"
	}

	_, _ = fmt.Fprintf(w, `%s

%s

%s
    practice-alerts [COMMAND] [OPTIONS]

%s
%s

%s
    --debug         Print debug output
    --quiet         Only print errors
    -h, --help      Show help message
`,
		helpHeader.Render("practice-alerts v"+versionStr),
		root.Short,
		helpHeader.Render("USAGE:"),
		helpHeader.Render("COMMANDS:"),
		strings.Join(lines, "\n"),
		helpHeader.Render("OPTIONS:"))
}

// printCommandHelp prints a subcommand's long description and its flags.
func printCommandHelp(cmd *cobra.Command, w io.Writer) {
	_, _ = fmt.Fprintln(w, strings.TrimSpace(cmd.Long))
	if cmd.HasAvailableLocalFlags() {
		_, _ = fmt.Fprintf(w, "\n%s\n%s", helpHeader.Render("OPTIONS:"), cmd.LocalFlags().FlagUsages())
	}
}

// NewHelpCmd creates the help command.
func NewHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show this help message",
		Long:  `Show this help message, or the help of one command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if len(args) == 0 {
				printHelp(root, cmd.OutOrStdout())
				return nil
			}
			target, _, err := root.Find(args)
			if err != nil || target == nil || target == root {
				printHelp(root, cmd.OutOrStdout())
				return nil
			}
			printCommandHelp(target, cmd.OutOrStdout())
			return nil
		},
	}
}
