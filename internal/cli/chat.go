package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"sage/internal/agent"
	"sage/internal/auth"
	"sage/internal/ui/console"
)

func runChat(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "sage.yml", "Path to configuration file")
		auditDB := fs.String("audit-db", "", "Record thinking events to this DuckDB file")
		noColor := fs.Bool("no-color", false, "Disable ANSI styling")
		verbose := fs.Bool("verbose", false, "Enable debug logging")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		logger := newLogger(stderr, *verbose)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rt, err := buildRuntime(ctx, *configPath, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start: %v\n", err)
			return ExitError
		}
		rt.bus.Register(console.NewPrinter(stdout, *noColor))
		closeAudit, err := attachAudit(rt, *auditDB)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open audit database: %v\n", err)
			return ExitError
		}
		defer closeAudit()

		session := rt.newSession()
		fmt.Fprintf(stdout, "Connected. %d tools available. Type /help for commands.\n", len(rt.registry.Tools()))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(stdout, "\n> ")
			if !scanner.Scan() {
				fmt.Fprintln(stdout)
				return ExitOK
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") {
				if done := handleSlash(line, rt, session, stdout); done {
					return ExitOK
				}
				continue
			}
			if err := askOnce(ctx, session, line, stderr); err != nil {
				return ExitError
			}
		}
	}
}

// askOnce runs one turn. Recoverable failures are reported and the
// conversation continues; a cancelled context ends the session.
func askOnce(ctx context.Context, session *agent.Session, line string, stderr io.Writer) error {
	_, err := session.Ask(ctx, line)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, agent.ErrBudgetExceeded):
		// The budget notice was already shown as the final answer.
		return nil
	case ctx.Err() != nil:
		fmt.Fprintln(stderr, "Interrupted.")
		return ctx.Err()
	default:
		var authErr *auth.AuthError
		if errors.As(err, &authErr) {
			fmt.Fprintf(stderr, "Authentication failed: %v\n", authErr)
			return nil
		}
		fmt.Fprintf(stderr, "Turn failed: %v\n", err)
		return nil
	}
}

func handleSlash(line string, rt *runtime, session *agent.Session, stdout io.Writer) bool {
	switch strings.Fields(line)[0] {
	case "/quit", "/exit":
		return true
	case "/clear":
		session.Clear()
		fmt.Fprintln(stdout, "History cleared.")
	case "/tools":
		printTools(rt, stdout)
	case "/help":
		fmt.Fprintln(stdout, "Commands:")
		fmt.Fprintln(stdout, "  /tools  list available tools")
		fmt.Fprintln(stdout, "  /clear  forget conversation history")
		fmt.Fprintln(stdout, "  /help   show this help")
		fmt.Fprintln(stdout, "  /quit   exit")
	default:
		fmt.Fprintf(stdout, "Unknown command %s. Type /help.\n", line)
	}
	return false
}

func printTools(rt *runtime, stdout io.Writer) {
	tools := rt.registry.Tools()
	if len(tools) == 0 {
		fmt.Fprintln(stdout, "No tools available.")
		return
	}
	for _, tool := range tools {
		fmt.Fprintf(stdout, "  %-24s %s\n", tool.Name, tool.Description)
	}
}
