// internal/logging/sink_test.go
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func forceColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })
}

func TestEmit_UntaggedWarningStaysPlain(t *testing.T) {
	forceColor(t)

	var console, file bytes.Buffer
	s := &logSink{console: &console, file: &file}

	s.Emit("Device disconnected.", Warning, TagNone)

	out := console.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("untagged warning rendered with color: %q", out)
	}
	if !strings.Contains(out, "Device disconnected.") {
		t.Fatalf("console line = %q", out)
	}
}

func TestEmit_TagColorsConsoleOnly(t *testing.T) {
	forceColor(t)

	var console, file bytes.Buffer
	s := &logSink{console: &console, file: &file}

	s.Emit("Device ready for commands.", Info, TagGreen)

	if !strings.Contains(console.String(), "\x1b[") {
		t.Fatalf("tagged line not colored: %q", console.String())
	}
	if strings.Contains(file.String(), "\x1b[") {
		t.Fatalf("file copy carries color codes: %q", file.String())
	}
	if !strings.Contains(file.String(), "Device ready for commands.") {
		t.Fatalf("file line = %q", file.String())
	}
}
