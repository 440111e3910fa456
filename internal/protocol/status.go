// internal/protocol/status.go
package protocol

import "fmt"

// Marker is the first byte of every binary status report.
// Anything not starting with it is device debug text.
const Marker byte = 0xAB

// FrameSize is marker + 4-byte address + 1-byte status code.
const FrameSize = 6

// ---- STATUS CODES ----

// Status codes reported by the device firmware.
// These values define the protocol and MUST NOT be configurable.
const (
	CodeTargetUnreachable uint8 = 1
	CodePortOpen          uint8 = 2
	CodeServiceNoResponse uint8 = 3
	CodeServiceResponded  uint8 = 4
	CodeScanCycleStart    uint8 = 5
	CodeScanCycleEnd      uint8 = 6
	CodeConnectSuccess    uint8 = 10
	CodeConnectFailure    uint8 = 11
	CodeScanningTarget    uint8 = 15
	CodeDeviceReady       uint8 = 16
)

// Symbolic status names. Waiters subscribe to these.
const (
	StatusConnectSuccess    = "CONNECT_SUCCESS"
	StatusConnectFailure    = "CONNECT_FAILURE"
	StatusScanningTarget    = "SCANNING_TARGET"
	StatusDeviceReady       = "DEVICE_READY"
	StatusTargetUnreachable = "TARGET_UNREACHABLE"
	StatusPortOpen          = "PORT_OPEN"
	StatusServiceNoResponse = "SERVICE_NO_RESPONSE"
	StatusServiceResponded  = "SERVICE_RESPONDED"
	StatusScanCycleStart    = "SCAN_CYCLE_START"
	StatusScanCycleEnd      = "SCAN_CYCLE_END"
)

var statusNames = map[uint8]string{
	CodeConnectSuccess:    StatusConnectSuccess,
	CodeConnectFailure:    StatusConnectFailure,
	CodeScanningTarget:    StatusScanningTarget,
	CodeDeviceReady:       StatusDeviceReady,
	CodeTargetUnreachable: StatusTargetUnreachable,
	CodePortOpen:          StatusPortOpen,
	CodeServiceNoResponse: StatusServiceNoResponse,
	CodeServiceResponded:  StatusServiceResponded,
	CodeScanCycleStart:    StatusScanCycleStart,
	CodeScanCycleEnd:      StatusScanCycleEnd,
}

// StatusName maps a status code to its symbolic name.
// Unknown codes render generically; never an error.
func StatusName(code uint8) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", code)
}
