// internal/console/readline.go
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
)

const historyLimit = 500

// readlineIO is the terminal-backed ConsoleIO with line editing and
// persistent history.
type readlineIO struct {
	rl *readline.Instance
}

// NewReadlineIO opens the terminal. historyFile may be empty to keep
// history in memory only.
func NewReadlineIO(historyFile string) (ConsoleIO, error) {
	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyFile,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("console: open terminal: %w", err)
	}
	return &readlineIO{rl: rl}, nil
}

// ReadLine blocks for one line. Ctrl-C cancels the current line and
// returns empty; Ctrl-D is io.EOF.
func (c *readlineIO) ReadLine(prompt string) (string, error) {
	c.rl.SetPrompt(prompt)
	line, err := c.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", nil
		}
		return "", io.EOF
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		c.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (c *readlineIO) Print(text string) {
	fmt.Fprintln(os.Stdout, text)
}

// Close releases the terminal and persists history.
func (c *readlineIO) Close() error {
	return c.rl.Close()
}
