/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/practice-alerts/internal/colors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	root := NewRootCmd(defaultDeps())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		colors.Error(err.Error())
		return 1
	}
	return 0
}
