package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func runTools(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "sage.yml", "Path to configuration file")
		verbose := fs.Bool("verbose", false, "Enable debug logging")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		logger := newLogger(stderr, *verbose)
		rt, err := buildRuntime(context.Background(), *configPath, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start: %v\n", err)
			return ExitError
		}
		printTools(rt, stdout)
		return ExitOK
	}
}
