// internal/console/console.go

// Package console implements the interactive command loop. Commands go
// out as text lines; completion is signaled later by decoded status
// reports, so every handler arms the prompt gate instead of blocking.
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/shlex"

	"github.com/espscout/espscout/internal/logging"
	"github.com/espscout/espscout/internal/prompt"
	"github.com/espscout/espscout/internal/store"
	"github.com/espscout/espscout/internal/transport"
)

// ConsoleIO abstracts the terminal. ReadLine blocks until a full line,
// io.EOF on end of input; an interrupted read returns an empty line.
type ConsoleIO interface {
	ReadLine(prompt string) (string, error)
	Print(text string)
}

// DeviceInfo is the local interface-info collaborator behind ipconfig.
type DeviceInfo interface {
	Run() (string, error)
}

// Deps is everything a session needs. All fields required except Info.
type Deps struct {
	IO       ConsoleIO
	Sink     logging.Sink
	Gate     *prompt.Gate
	Link     *transport.Link
	Networks store.Store
	Info     DeviceInfo

	// Shutdown stops the whole process; exit/quit call it.
	Shutdown context.CancelFunc
}

// Session owns the command table and the console loop. Stateless per
// command; the gate guarantees one command in flight.
type Session struct {
	deps     Deps
	commands map[string]func(args []string)
}

// NewSession builds a session with the fixed verb table.
func NewSession(deps Deps) *Session {
	s := &Session{deps: deps}
	s.commands = map[string]func([]string){
		"help":          s.cmdHelp,
		"join":          s.cmdJoin,
		"scan":          s.cmdScan,
		"networks":      s.cmdNetworks,
		"randomize_mac": s.cmdRandomizeMAC,
		"randomise_mac": s.cmdRandomizeMAC,
		"status":        s.cmdStatus,
		"ipconfig":      s.cmdIPConfig,
		"reboot":        s.cmdReboot,
		"clear":         s.cmdClear,
		"cls":           s.cmdClear,
		"exit":          s.cmdExit,
		"quit":          s.cmdExit,
		"q":             s.cmdExit,
	}
	return s
}

var promptText = color.GreenString("espscout > ")

// Run drives the console until shutdown or end of input. It blocks
// only on the gate and on its own line read.
func (s *Session) Run(ctx context.Context) {
	s.printHelp()
	s.deps.Gate.Hold(startupHoldDelay)

	for {
		s.deps.Gate.Wait()
		if ctx.Err() != nil {
			return
		}

		line, err := s.deps.IO.ReadLine(promptText)
		if err != nil {
			// End of input stops the controller like exit does.
			s.deps.Shutdown()
			s.deps.Gate.Release()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		s.Dispatch(line)
	}
}

// Dispatch tokenizes one input line and runs its handler. A panicking
// handler is logged and the gate force-released; the loop never dies
// on a bad command.
func (s *Session) Dispatch(line string) {
	tokens, err := shlex.Split(line)
	if err != nil {
		s.printError(fmt.Sprintf("Parse error: %v", err))
		s.deps.Gate.DefaultHold()
		return
	}
	if len(tokens) == 0 {
		return
	}

	verb := strings.ToLower(tokens[0])
	handler, ok := s.commands[verb]
	if !ok {
		s.printError("Unknown command. Type 'help' for a list of commands.")
		s.deps.Gate.DefaultHold()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.deps.Sink.Emit(fmt.Sprintf("Command '%s' failed: %v", verb, r), logging.Error, logging.TagNone)
			s.deps.Gate.DefaultHold()
		}
	}()
	handler(tokens[1:])
}

func (s *Session) printError(text string) {
	s.deps.IO.Print(color.HiRedString(text))
}

// send writes one command line to the device. On failure it reports,
// arms the default hold, and tells the caller to stop.
func (s *Session) send(command string) bool {
	if err := s.deps.Link.SendCommand(command); err != nil {
		s.deps.Sink.Emit(err.Error(), logging.Warning, logging.TagNone)
		s.deps.Gate.DefaultHold()
		return false
	}
	return true
}
