// internal/logging/sink.go
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity classifies a log line.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// Tag selects the console color of a line. The file copy is always plain.
type Tag int

const (
	TagNone Tag = iota
	TagGreen
	TagRed
	TagYellow
	TagBlue
	TagCyan
	TagMagenta
)

// Sink receives every controller log line.
type Sink interface {
	Emit(text string, sev Severity, tag Tag)
}

var tagColors = map[Tag]*color.Color{
	TagGreen:   color.New(color.FgGreen),
	TagRed:     color.New(color.FgRed),
	TagYellow:  color.New(color.FgYellow),
	TagBlue:    color.New(color.FgBlue),
	TagCyan:    color.New(color.FgCyan),
	TagMagenta: color.New(color.FgMagenta),
}

// logSink writes timestamped lines to the console (colored) and to a
// rotating log file (plain).
type logSink struct {
	console io.Writer
	file    io.Writer
}

// New builds the standard sink: stdout plus a rotating file at path.
// Rotation: 1 MiB per file, 3 backups.
func New(path string) Sink {
	return &logSink{
		console: os.Stdout,
		file: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    1, // megabytes
			MaxBackups: 3,
		},
	}
}

func (s *logSink) Emit(text string, sev Severity, tag Tag) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), text)

	// Severity does not imply a color: callers pick the tag, and an
	// untagged warning stays plain.
	if c, ok := tagColors[tag]; ok {
		fmt.Fprintln(s.console, c.Sprint(line))
	} else {
		fmt.Fprintln(s.console, line)
	}

	if s.file != nil {
		fmt.Fprintln(s.file, line)
	}
}
