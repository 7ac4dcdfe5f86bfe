package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// displayKind selects how a run's thinking events are rendered.
type displayKind int

const (
	// displayPlain prints each event as a static transcript block.
	displayPlain displayKind = iota
	// displayLive renders an updating transcript with a spinner.
	displayLive
)

// displayChoice is the resolved rendering decision for one ask run,
// with an optional note to show the user when their request could not
// be honored.
type displayChoice struct {
	kind displayKind
	note string
}

// writerIsTerminal reports whether a writer is backed by a TTY.
// Variable so tests can force either answer.
var writerIsTerminal = func(w io.Writer) bool {
	if w == nil {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

// chooseDisplay resolves the --ui flag against the environment. The
// live transcript repaints in place, so it needs a TTY and cannot
// share the screen with verbose logging; both cases degrade to the
// plain printer.
func chooseDisplay(flag string, verbose bool, stdout io.Writer) (displayChoice, error) {
	if verbose {
		return displayChoice{kind: displayPlain}, nil
	}
	switch flag {
	case "", "auto":
		if writerIsTerminal(stdout) {
			return displayChoice{kind: displayLive}, nil
		}
		return displayChoice{kind: displayPlain}, nil
	case "live":
		if writerIsTerminal(stdout) {
			return displayChoice{kind: displayLive}, nil
		}
		return displayChoice{
			kind: displayPlain,
			note: "stdout is not a terminal, using plain output instead of the live transcript",
		}, nil
	case "plain":
		return displayChoice{kind: displayPlain}, nil
	default:
		return displayChoice{}, fmt.Errorf("unknown --ui value %q (expected auto, live, or plain)", flag)
	}
}
