// internal/protocol/decoder_test.go
package protocol

import (
	"bytes"
	"reflect"
	"testing"
)

func frame(addr [4]byte, code uint8) []byte {
	return []byte{Marker, addr[0], addr[1], addr[2], addr[3], code}
}

func TestFeed_DecodesStatusFrame(t *testing.T) {
	d := NewDecoder()

	events := d.Feed(frame([4]byte{192, 168, 1, 42}, CodeConnectSuccess))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev, ok := events[0].(StatusEvent)
	if !ok {
		t.Fatalf("expected StatusEvent, got %T", events[0])
	}
	if ev.Addr != "192.168.1.42" {
		t.Fatalf("addr = %q, want 192.168.1.42", ev.Addr)
	}
	if ev.Name != StatusConnectSuccess {
		t.Fatalf("name = %q, want %s", ev.Name, StatusConnectSuccess)
	}
}

func TestFeed_PartialFrameEmitsNothing(t *testing.T) {
	d := NewDecoder()

	// Marker plus only 4 payload bytes: one short of a full frame.
	if events := d.Feed([]byte{Marker, 1, 2, 3, 4}); events != nil {
		t.Fatalf("expected no events on partial frame, got %v", events)
	}

	events := d.Feed([]byte{CodePortOpen})
	if len(events) != 1 {
		t.Fatalf("expected 1 event after completion, got %d", len(events))
	}
	if ev := events[0].(StatusEvent); ev.Name != StatusPortOpen {
		t.Fatalf("name = %q, want %s", ev.Name, StatusPortOpen)
	}
}

func TestFeed_UnknownStatusCode(t *testing.T) {
	d := NewDecoder()

	events := d.Feed(frame([4]byte{10, 0, 0, 1}, 200))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if ev := events[0].(StatusEvent); ev.Name != "UNKNOWN(200)" {
		t.Fatalf("name = %q, want UNKNOWN(200)", ev.Name)
	}
}

func TestFeed_DebugLine(t *testing.T) {
	d := NewDecoder()

	events := d.Feed([]byte("boot: wifi stack up\r\n"))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if ev := events[0].(DebugEvent); ev.Text != "boot: wifi stack up" {
		t.Fatalf("text = %q", ev.Text)
	}
}

func TestFeed_BlankDebugLineDropped(t *testing.T) {
	d := NewDecoder()

	if events := d.Feed([]byte("  \r\n\n")); events != nil {
		t.Fatalf("expected no events for blank lines, got %v", events)
	}
}

func TestFeed_InvalidUTF8Replaced(t *testing.T) {
	d := NewDecoder()

	events := d.Feed([]byte{'o', 'k', 0xFF, 0xFE, '!', '\n'})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0].(DebugEvent)
	if ev.Text != "ok��!" {
		t.Fatalf("text = %q, want one replacement rune per invalid byte", ev.Text)
	}
}

func TestFeed_InvalidRunReplacedPerByte(t *testing.T) {
	d := NewDecoder()

	// A run of invalid bytes must not collapse into a single rune.
	events := d.Feed([]byte{'a', 0xC0, 0xC1, 0xF5, 'b', '\n'})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if ev := events[0].(DebugEvent); ev.Text != "a���b" {
		t.Fatalf("text = %q, want a���b", ev.Text)
	}
}

func TestFeed_MixedFramesAndText(t *testing.T) {
	d := NewDecoder()

	var stream []byte
	stream = append(stream, []byte("scanning subnet\n")...)
	stream = append(stream, frame([4]byte{10, 0, 0, 7}, CodePortOpen)...)
	stream = append(stream, []byte("done\n")...)
	stream = append(stream, frame([4]byte{0, 0, 0, 0}, CodeScanCycleEnd)...)

	events := d.Feed(stream)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if _, ok := events[0].(DebugEvent); !ok {
		t.Fatalf("event 0: expected DebugEvent, got %T", events[0])
	}
	if ev := events[1].(StatusEvent); ev.Addr != "10.0.0.7" {
		t.Fatalf("event 1 addr = %q", ev.Addr)
	}
	if ev := events[3].(StatusEvent); ev.Name != StatusScanCycleEnd {
		t.Fatalf("event 3 name = %q", ev.Name)
	}
}

func TestFeed_ChunkingDoesNotChangeEvents(t *testing.T) {
	var stream []byte
	stream = append(stream, []byte("debug line one\n")...)
	stream = append(stream, frame([4]byte{192, 168, 1, 1}, CodeScanningTarget)...)
	stream = append(stream, frame([4]byte{192, 168, 1, 1}, CodeServiceResponded)...)
	stream = append(stream, []byte("trailer\n")...)

	whole := NewDecoder().Feed(stream)

	for _, size := range []int{1, 2, 3, 5, 7, 16} {
		d := NewDecoder()
		var got []Event
		for i := 0; i < len(stream); i += size {
			end := i + size
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, d.Feed(stream[i:end])...)
		}
		if !reflect.DeepEqual(got, whole) {
			t.Fatalf("chunk size %d: events diverge: %v vs %v", size, got, whole)
		}
	}
}

func TestFeed_UnterminatedNoiseTruncates(t *testing.T) {
	d := NewDecoder()

	// No newline, not a marker: buffer must cap at the trailing 256 bytes.
	noise := bytes.Repeat([]byte{'x'}, 3000)
	if events := d.Feed(noise); events != nil {
		t.Fatalf("expected no events, got %v", events)
	}
	if len(d.pending) != keepTrailingSize {
		t.Fatalf("pending = %d bytes, want %d", len(d.pending), keepTrailingSize)
	}

	// The retained tail still terminates into a single line.
	events := d.Feed([]byte("\n"))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if ev := events[0].(DebugEvent); len(ev.Text) != keepTrailingSize {
		t.Fatalf("text length = %d, want %d", len(ev.Text), keepTrailingSize)
	}
}

func TestReset_ClearsPending(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte{Marker, 1, 2})
	d.Reset()

	if events := d.Feed([]byte{3, 4, CodePortOpen}); events != nil {
		t.Fatalf("expected stale partial frame to be gone, got %v", events)
	}
}
