package cli

import (
	"bytes"
	"io"
	"testing"
)

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	original := writerIsTerminal
	writerIsTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() { writerIsTerminal = original })
}

func TestChooseDisplayAuto(t *testing.T) {
	var buf bytes.Buffer
	withTerminal(t, true)
	display, err := chooseDisplay("auto", false, &buf)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if display.kind != displayLive {
		t.Fatalf("auto on a TTY should pick the live transcript")
	}

	withTerminal(t, false)
	display, err = chooseDisplay("auto", false, &buf)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if display.kind != displayPlain {
		t.Fatalf("auto off a TTY should pick the plain printer")
	}
}

func TestChooseDisplayEmptyFlagMeansAuto(t *testing.T) {
	var buf bytes.Buffer
	withTerminal(t, false)
	display, err := chooseDisplay("", false, &buf)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if display.kind != displayPlain {
		t.Fatalf("empty flag off a TTY should pick the plain printer")
	}
}

func TestChooseDisplayLiveDegradesWithoutTTY(t *testing.T) {
	var buf bytes.Buffer
	withTerminal(t, false)
	display, err := chooseDisplay("live", false, &buf)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if display.kind != displayPlain {
		t.Fatalf("live without a TTY must degrade to plain")
	}
	if display.note == "" {
		t.Fatalf("degrading should carry a note for the user")
	}
}

func TestChooseDisplayVerboseForcesPlain(t *testing.T) {
	var buf bytes.Buffer
	withTerminal(t, true)
	display, err := chooseDisplay("live", true, &buf)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if display.kind != displayPlain {
		t.Fatalf("verbose logging must force the plain printer")
	}
}

func TestChooseDisplayRejectsUnknownFlag(t *testing.T) {
	var buf bytes.Buffer
	if _, err := chooseDisplay("fancy", false, &buf); err == nil {
		t.Fatalf("expected an error for an unknown flag value")
	}
}
