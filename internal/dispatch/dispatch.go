// internal/dispatch/dispatch.go
package dispatch

import (
	"fmt"

	"github.com/espscout/espscout/internal/logging"
	"github.com/espscout/espscout/internal/prompt"
	"github.com/espscout/espscout/internal/protocol"
	"github.com/espscout/espscout/internal/waiter"
)

// noTargetAddr is the sentinel the device reports for statuses that
// concern no particular host.
const noTargetAddr = "0.0.0.0"

// Dispatcher turns decoded events into log lines and waiter
// notifications. No state of its own.
type Dispatcher struct {
	sink     logging.Sink
	registry *waiter.Registry
	gate     *prompt.Gate
}

// New wires a dispatcher.
func New(sink logging.Sink, registry *waiter.Registry, gate *prompt.Gate) *Dispatcher {
	return &Dispatcher{sink: sink, registry: registry, gate: gate}
}

// Handle routes one decoded event.
func (d *Dispatcher) Handle(ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.StatusEvent:
		d.handleStatus(e)
	case protocol.DebugEvent:
		d.sink.Emit("DEVICE DEBUG: "+e.Text, logging.Info, logging.TagNone)
	}
}

// handleStatus builds the per-status message, logs it, and notifies
// waiters. Always notifies, whatever the status.
func (d *Dispatcher) handleStatus(e protocol.StatusEvent) {
	switch {
	case e.Code == protocol.CodeConnectSuccess:
		d.sink.Emit(fmt.Sprintf("Device connected. IP: %s", e.Addr), logging.Info, logging.TagGreen)

	case e.Code == protocol.CodeConnectFailure:
		d.sink.Emit("Device failed to connect.", logging.Warning, logging.TagRed)

	case e.Code == protocol.CodeScanningTarget:
		d.sink.Emit(fmt.Sprintf("Scanning target %s", e.Addr), logging.Info, logging.TagBlue)

	case e.Addr == noTargetAddr:
		d.handleUntargeted(e)

	default:
		d.handleTargeted(e)
	}

	d.registry.Notify(e.Name)
}

func (d *Dispatcher) handleUntargeted(e protocol.StatusEvent) {
	switch e.Name {
	case protocol.StatusScanCycleStart:
		d.sink.Emit("[SCAN] Cycle started", logging.Info, logging.TagCyan)
	case protocol.StatusScanCycleEnd:
		d.sink.Emit("[SCAN] Cycle completed", logging.Info, logging.TagCyan)
	case protocol.StatusDeviceReady:
		d.sink.Emit("Device ready for commands.", logging.Info, logging.TagGreen)
		// The device became ready while nobody was waiting on it,
		// e.g. after an unprompted reboot with the console idle.
		if d.registry.Pending() == 0 {
			d.gate.Release()
		}
	default:
		d.sink.Emit("DEVICE REPORT: "+e.Name, logging.Info, logging.TagNone)
	}
}

func (d *Dispatcher) handleTargeted(e protocol.StatusEvent) {
	switch e.Name {
	case protocol.StatusPortOpen:
		d.sink.Emit(fmt.Sprintf("[SCAN] %s | TCP/445 open", e.Addr), logging.Info, logging.TagYellow)
	case protocol.StatusServiceResponded:
		d.sink.Emit(fmt.Sprintf("[SCAN] %s | SMB negotiation successful", e.Addr), logging.Info, logging.TagGreen)
	case protocol.StatusServiceNoResponse:
		d.sink.Emit(fmt.Sprintf("[SCAN] %s | No SMB response", e.Addr), logging.Warning, logging.TagNone)
	case protocol.StatusTargetUnreachable:
		d.sink.Emit(fmt.Sprintf("[SCAN] %s | Host unreachable", e.Addr), logging.Warning, logging.TagNone)
	default:
		d.sink.Emit(fmt.Sprintf("DEVICE REPORT: TARGET %s -> %s", e.Addr, e.Name), logging.Info, logging.TagNone)
	}
}
