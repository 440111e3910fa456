// internal/protocol/decoder.go
package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Buffer bounds when no line terminator shows up.
// Caps memory under line noise; leading garbage is acceptable loss.
const (
	maxPendingBytes  = 2048
	keepTrailingSize = 256
)

// Event is one decoded unit from the device stream.
// Exactly StatusEvent or DebugEvent.
type Event interface {
	isEvent()
}

// StatusEvent is one decoded binary status report.
type StatusEvent struct {
	Addr string // dotted-quad target address
	Code uint8
	Name string
}

// DebugEvent is one line of free-text firmware output.
type DebugEvent struct {
	Text string
}

func (StatusEvent) isEvent() {}
func (DebugEvent) isEvent()  {}

// Decoder turns a raw byte stream into status and debug events.
// It owns the pending buffer; not safe for concurrent use.
type Decoder struct {
	pending []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset discards any buffered bytes. Call on transport disconnect.
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
}

// Feed appends a chunk and extracts every complete unit.
// Chunk boundaries never affect the emitted event sequence.
func (d *Decoder) Feed(chunk []byte) []Event {
	d.pending = append(d.pending, chunk...)

	var events []Event
	for len(d.pending) > 0 {
		if d.pending[0] == Marker {
			if len(d.pending) < FrameSize {
				// Partial frame: wait for more bytes.
				break
			}
			ev := decodeFrame(d.pending[1:FrameSize])
			d.pending = d.pending[FrameSize:]
			events = append(events, ev)
			continue
		}

		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			if len(d.pending) > maxPendingBytes {
				d.pending = append(d.pending[:0], d.pending[len(d.pending)-keepTrailingSize:]...)
			}
			break
		}

		line := d.pending[:idx]
		d.pending = d.pending[idx+1:]

		text := strings.TrimSpace(decodeText(line))
		if text != "" {
			events = append(events, DebugEvent{Text: text})
		}
	}
	return events
}

// decodeFrame decodes the 5-byte payload after the marker.
// The device sends the address little-endian; display wants network order,
// which puts the stream bytes back in dotted-quad order.
func decodeFrame(payload []byte) StatusEvent {
	raw := binary.LittleEndian.Uint32(payload[:4])
	code := payload[4]
	addr := fmt.Sprintf("%d.%d.%d.%d",
		byte(raw), byte(raw>>8), byte(raw>>16), byte(raw>>24))
	return StatusEvent{Addr: addr, Code: code, Name: StatusName(code)}
}

// decodeText decodes permissively: every invalid byte becomes its own
// replacement rune, never a decode fault.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}
