package console

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// headingStyle selects how a transcript heading is styled.
type headingStyle int

const (
	styleDefault headingStyle = iota
	styleDim
	styleHeadingThought
	styleHeadingToolCall
	styleHeadingToolResult
	styleHeadingError
	styleHeadingAnswer
)

const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiDim     = "\x1b[2m"
	ansiMagenta = "\x1b[35m"
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiGreen   = "\x1b[32m"
	ansiCyan    = "\x1b[36m"
	ansiGray    = "\x1b[90m"
)

var isTerminal = term.IsTerminal

// palette controls ANSI styling for transcript output.
type palette struct {
	enabled bool
}

// paletteFor selects a palette based on the writer and color settings.
func paletteFor(writer io.Writer, noColor bool) palette {
	if noColor {
		return palette{enabled: false}
	}
	return palette{enabled: shouldUseStyling(writer)}
}

// shouldUseStyling reports whether ANSI styling should be enabled.
func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return isTerminal(int(file.Fd()))
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return isTerminal(int(fder.Fd()))
	}
	return false
}

// apply wraps text with ANSI codes for the requested style.
func (p palette) apply(style headingStyle, text string) string {
	if !p.enabled {
		return text
	}
	switch style {
	case styleDim:
		return ansiDim + ansiGray + text + ansiReset
	case styleHeadingThought:
		return ansiBold + ansiCyan + text + ansiReset
	case styleHeadingToolCall:
		return ansiBold + ansiYellow + text + ansiReset
	case styleHeadingToolResult:
		return ansiBold + ansiGreen + text + ansiReset
	case styleHeadingError:
		return ansiBold + ansiRed + text + ansiReset
	case styleHeadingAnswer:
		return ansiBold + ansiMagenta + text + ansiReset
	default:
		return text
	}
}
