package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"sage/internal/agent"
	"sage/internal/ui/console"
	"sage/internal/ui/live"
)

func runAsk(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "sage.yml", "Path to configuration file")
		uiMode := fs.String("ui", "auto", "UI mode: auto, live, or plain")
		auditDB := fs.String("audit-db", "", "Record thinking events to this DuckDB file")
		noColor := fs.Bool("no-color", false, "Disable ANSI styling")
		verbose := fs.Bool("verbose", false, "Enable debug logging")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		question := strings.TrimSpace(strings.Join(fs.Args(), " "))
		if question == "" {
			fmt.Fprintln(stderr, "A question is required.")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		display, err := chooseDisplay(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if display.note != "" {
			fmt.Fprintln(stderr, display.note)
		}

		logger := newLogger(stderr, *verbose)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rt, err := buildRuntime(ctx, *configPath, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start: %v\n", err)
			return ExitError
		}
		closeAudit, err := attachAudit(rt, *auditDB)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open audit database: %v\n", err)
			return ExitError
		}
		defer closeAudit()

		var controller *live.Controller
		if display.kind == displayLive {
			controller = live.Start(stdout, live.Options{NoColor: *noColor})
			rt.bus.Register(controller)
		} else {
			rt.bus.Register(console.NewPrinter(stdout, *noColor))
		}

		session := rt.newSession()
		answer, err := session.Ask(ctx, question)
		controller.Close()
		controller.Wait()

		switch {
		case err == nil:
			if display.kind == displayLive {
				fmt.Fprintln(stdout, answer)
			}
			return ExitOK
		case errors.Is(err, agent.ErrBudgetExceeded):
			fmt.Fprintln(stderr, answer)
			return ExitError
		default:
			fmt.Fprintf(stderr, "Ask failed: %v\n", err)
			return ExitError
		}
	}
}
