package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"sage/internal/config"
)

func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "sage.yml", "Path to configuration file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		_, err := config.Load(*configPath)
		if err == nil {
			fmt.Fprintf(stdout, "%s is valid.\n", *configPath)
			return ExitOK
		}
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			fmt.Fprintln(stderr, "Configuration problems:")
			for _, issue := range validation.Issues {
				fmt.Fprintf(stderr, "  %s: %s\n", issue.Field, issue.Message)
			}
			return ExitError
		}
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return ExitError
	}
}
