// internal/console/commands.go
package console

import (
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/espscout/espscout/internal/logging"
	"github.com/espscout/espscout/internal/protocol"
	"github.com/espscout/espscout/internal/store"
)

// Per-verb gate timing. A join answers within seconds; a full subnet
// scan can run minutes. Fallback delays give the device a grace window
// to flush related debug output when the status never arrives.
const (
	startupHoldDelay = 1 * time.Second

	joinTimeout  = 25 * time.Second
	joinFallback = 500 * time.Millisecond

	scanAllTimeout  = 180 * time.Second
	scanAllFallback = 1 * time.Second

	scanTargetTimeout  = 60 * time.Second
	scanTargetFallback = 800 * time.Millisecond

	rebootTimeout  = 20 * time.Second
	rebootFallback = 1 * time.Second

	randomizeMACHold = 600 * time.Millisecond
	clearHold        = 300 * time.Millisecond
	ipconfigHold     = 1200 * time.Millisecond
)

// ---- help ----

func (s *Session) cmdHelp(_ []string) {
	s.printHelp()
	s.deps.Gate.DefaultHold()
}

func (s *Session) printHelp() {
	entries := []struct{ command, desc string }{
		{"help", "Show this message."},
		{"join -s <ssid> -p <pass>", "Connect using provided credentials."},
		{"join -i <index>", "Connect to a saved network."},
		{"scan -all", "Scan the current subnet."},
		{"scan -t <ipv4>", "Probe a single IPv4 host."},
		{"networks", "List saved networks."},
		{"randomize_mac", "Randomise MAC before next join."},
		{"status", "Show device connection status."},
		{"ipconfig", "Display local host interface info."},
		{"reboot", "Reboot the device."},
		{"clear", "Clear the console screen."},
		{"exit", "Stop the controller."},
	}

	s.deps.IO.Print("")
	s.deps.IO.Print(color.HiYellowString("Available Commands:"))
	for _, e := range entries {
		s.deps.IO.Print(fmt.Sprintf("  %s%s",
			color.CyanString("%-28s", e.command), color.HiWhiteString(e.desc)))
	}
	s.deps.IO.Print("")
}

// ---- join ----

func (s *Session) cmdJoin(args []string) {
	networks, err := s.deps.Networks.Load()
	if err != nil {
		s.deps.Sink.Emit(fmt.Sprintf("Failed to load saved networks: %v", err), logging.Warning, logging.TagNone)
		networks = nil
	}

	var ssid, password string
	index, hasIndex := 0, false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-i", "--index":
			i++
			if i >= len(args) {
				s.joinIndexUsage()
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				s.joinIndexUsage()
				return
			}
			index, hasIndex = n, true
		case "-s", "--ssid":
			i++
			if i >= len(args) {
				s.joinCredsUsage()
				return
			}
			ssid = args[i]
		case "-p", "--password":
			i++
			if i >= len(args) {
				s.joinCredsUsage()
				return
			}
			password = args[i]
		default:
			s.printError("Unknown option: " + args[i])
			s.deps.Gate.DefaultHold()
			return
		}
	}

	switch {
	case hasIndex:
		if len(networks) == 0 {
			s.printError("No saved networks available.")
			s.deps.Gate.DefaultHold()
			return
		}
		if index < 0 || index >= len(networks) {
			s.printError("Error: Index out of bounds.")
			s.deps.Gate.DefaultHold()
			return
		}
		ssid, password = networks[index].SSID, networks[index].Password
		s.deps.Sink.Emit(fmt.Sprintf("Joining saved network [%d]: %s", index, ssid), logging.Info, logging.TagNone)

	case ssid != "" && password != "":
		if updated, changed := store.Upsert(networks, ssid, password); changed {
			if err := s.deps.Networks.Save(updated); err != nil {
				s.deps.Sink.Emit(fmt.Sprintf("Failed to save network: %v", err), logging.Warning, logging.TagNone)
			} else {
				s.deps.Sink.Emit(fmt.Sprintf("Network '%s' saved.", ssid), logging.Info, logging.TagNone)
			}
		}
		s.deps.Sink.Emit("Joining new network: "+ssid, logging.Info, logging.TagNone)

	default:
		s.printError("Usage:\n  join -s <ssid> -p <password>\n  join -i <index>")
		s.deps.Gate.DefaultHold()
		return
	}

	if !s.send(fmt.Sprintf("join %s %s", ssid, password)) {
		return
	}
	s.deps.Gate.HoldUntilStatus(
		[]string{protocol.StatusConnectSuccess, protocol.StatusConnectFailure},
		joinTimeout, joinFallback)
}

func (s *Session) joinIndexUsage() {
	s.printError("Usage: join -i <index>")
	s.deps.Gate.DefaultHold()
}

func (s *Session) joinCredsUsage() {
	s.printError("Usage: join -s <ssid> -p <password>")
	s.deps.Gate.DefaultHold()
}

// ---- scan ----

func (s *Session) cmdScan(args []string) {
	if len(args) == 0 {
		s.scanUsage()
		return
	}

	switch args[0] {
	case "-all", "--all":
		if !s.send("scan -all") {
			return
		}
		s.deps.Sink.Emit("Requested full subnet scan.", logging.Info, logging.TagCyan)
		s.deps.Gate.HoldUntilStatus(
			[]string{protocol.StatusScanCycleEnd}, scanAllTimeout, scanAllFallback)

	case "-t":
		if len(args) < 2 {
			s.scanUsage()
			return
		}
		target := args[1]
		if !validIPv4(target) {
			s.printError("Error: Invalid IPv4 address.")
			s.deps.Gate.DefaultHold()
			return
		}
		if !s.send("scan -t " + target) {
			return
		}
		s.deps.Sink.Emit("Requested targeted scan: "+target, logging.Info, logging.TagMagenta)
		s.deps.Gate.HoldUntilStatus(
			[]string{protocol.StatusScanCycleEnd}, scanTargetTimeout, scanTargetFallback)

	default:
		s.scanUsage()
	}
}

func (s *Session) scanUsage() {
	s.printError("Usage: scan -all | scan -t <ipv4>")
	s.deps.Gate.DefaultHold()
}

// validIPv4 accepts dotted-quad IPv4 only.
func validIPv4(text string) bool {
	addr, err := netip.ParseAddr(text)
	return err == nil && addr.Is4()
}

// ---- device commands without arguments ----

func (s *Session) cmdRandomizeMAC(_ []string) {
	if !s.send("randomize_mac") {
		return
	}
	s.deps.Sink.Emit("Requested MAC randomisation.", logging.Info, logging.TagCyan)
	s.deps.Gate.Hold(randomizeMACHold)
}

func (s *Session) cmdReboot(_ []string) {
	if !s.send("reboot") {
		return
	}
	s.clearScreen()
	s.deps.Sink.Emit("Reboot command sent. Waiting for device to reconnect...", logging.Info, logging.TagCyan)
	s.deps.Gate.HoldUntilStatus(
		[]string{protocol.StatusDeviceReady}, rebootTimeout, rebootFallback)
}

// ---- local commands ----

func (s *Session) cmdStatus(_ []string) {
	s.deps.IO.Print("")
	s.deps.IO.Print(color.HiYellowString("Status:"))
	if tr := s.deps.Link.Get(); tr != nil {
		s.deps.IO.Print(fmt.Sprintf("  Serial port: %s (%s)", color.GreenString("connected"), tr.Name()))
	} else {
		s.deps.IO.Print(fmt.Sprintf("  Serial port: %s", color.RedString("disconnected")))
	}

	networks, err := s.deps.Networks.Load()
	if err != nil {
		s.deps.IO.Print(fmt.Sprintf("  Saved networks: %s", color.RedString("unreadable")))
	} else {
		s.deps.IO.Print(fmt.Sprintf("  Saved networks: %s", color.CyanString("%d", len(networks))))
	}
	s.deps.Gate.DefaultHold()
}

func (s *Session) cmdNetworks(_ []string) {
	networks, err := s.deps.Networks.Load()
	if err != nil {
		s.printError(fmt.Sprintf("Failed to load saved networks: %v", err))
		s.deps.Gate.DefaultHold()
		return
	}
	if len(networks) == 0 {
		s.printError("No networks saved.")
		s.deps.Gate.DefaultHold()
		return
	}

	s.deps.IO.Print(color.HiYellowString("Saved networks:"))
	for i, n := range networks {
		s.deps.IO.Print(fmt.Sprintf("  %s %s",
			color.MagentaString("[%d]", i), color.CyanString(n.SSID)))
	}
	s.deps.Gate.DefaultHold()
}

func (s *Session) cmdIPConfig(_ []string) {
	s.deps.IO.Print("")
	if s.deps.Info == nil {
		s.printError("Interface info is not available.")
		s.deps.Gate.DefaultHold()
		return
	}
	out, err := s.deps.Info.Run()
	if err != nil {
		s.printError(err.Error())
		s.deps.Gate.DefaultHold()
		return
	}
	s.deps.IO.Print(out)
	s.deps.Gate.Hold(ipconfigHold)
}

func (s *Session) cmdClear(_ []string) {
	s.clearScreen()
	s.deps.Gate.Hold(clearHold)
}

func (s *Session) clearScreen() {
	// ANSI clear + home; portable enough for the terminals readline
	// already requires.
	s.deps.IO.Print("\x1b[2J\x1b[H")
}

func (s *Session) cmdExit(_ []string) {
	s.deps.Sink.Emit("Exit requested. Stopping controller...", logging.Info, logging.TagNone)
	s.deps.Shutdown()
	// Bypass every delay so the loop observes shutdown immediately.
	s.deps.Gate.Release()
}
