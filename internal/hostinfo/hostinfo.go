// internal/hostinfo/hostinfo.go

// Package hostinfo shells out to the host's interface-info tool.
package hostinfo

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command collects local network interface information.
type Command struct{}

// Run executes the platform tool and returns its combined output.
func (Command) Run() (string, error) {
	name, args := tool()
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if len(out) == 0 {
			return "", fmt.Errorf("hostinfo: %s: %w", name, err)
		}
		// Partial output is still worth showing.
	}
	return string(out), nil
}

func tool() (string, []string) {
	if runtime.GOOS == "windows" {
		return "ipconfig", nil
	}
	return "ip", []string{"addr"}
}
