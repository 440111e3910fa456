// internal/dispatch/reader_test.go
package dispatch

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/espscout/espscout/internal/prompt"
	"github.com/espscout/espscout/internal/protocol"
	"github.com/espscout/espscout/internal/transport"
	"github.com/espscout/espscout/internal/waiter"
)

// ---- fake transport ----

// scriptedTransport replays reads one scripted step per call, then
// times out forever.
type scriptedTransport struct {
	steps []readStep
	pos   int
}

type readStep struct {
	data []byte
	err  error
}

func (f *scriptedTransport) Read(p []byte) (int, error) {
	if f.pos >= len(f.steps) {
		time.Sleep(5 * time.Millisecond)
		return 0, transport.ErrTimeout
	}
	step := f.steps[f.pos]
	f.pos++
	n := copy(p, step.data)
	return n, step.err
}

func (f *scriptedTransport) Write(p []byte) (int, error) { return len(p), nil }
func (f *scriptedTransport) Close() error                { return nil }
func (f *scriptedTransport) Name() string                { return "fake" }

// ---- tests ----

func TestReader_DispatchesDecodedEvents(t *testing.T) {
	sink := &fakeSink{}
	registry := waiter.NewRegistry()
	gate := prompt.NewGate(registry)
	link := transport.NewLink()

	link.Set(&scriptedTransport{steps: []readStep{
		{data: []byte("booting")},
		{data: []byte(" done\n")},
		{data: []byte{protocol.Marker, 0, 0, 0, 0, protocol.CodeScanCycleEnd}},
	}})

	r := NewReader(link, New(sink, registry, gate), sink)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		if len(sink.snapshot()) >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %+v", sink.snapshot())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	lines := sink.snapshot()
	if lines[0].text != "DEVICE DEBUG: booting done" {
		t.Fatalf("line 0 = %q", lines[0].text)
	}
	if lines[1].text != "[SCAN] Cycle completed" {
		t.Fatalf("line 1 = %q", lines[1].text)
	}
}

func TestReader_ReadFaultDropsLink(t *testing.T) {
	sink := &fakeSink{}
	registry := waiter.NewRegistry()
	gate := prompt.NewGate(registry)
	link := transport.NewLink()

	link.Set(&scriptedTransport{steps: []readStep{
		{err: errors.New("device unplugged")},
	}})

	r := NewReader(link, New(sink, registry, gate), sink)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for link.Connected() {
		select {
		case <-deadline:
			t.Fatalf("link never dropped after read fault")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestReader_TimeoutIsNotAFault(t *testing.T) {
	sink := &fakeSink{}
	registry := waiter.NewRegistry()
	gate := prompt.NewGate(registry)
	link := transport.NewLink()
	link.Set(&scriptedTransport{})

	r := NewReader(link, New(sink, registry, gate), sink)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	if !link.Connected() {
		t.Fatalf("timeout read dropped the link")
	}
	if lines := sink.snapshot(); len(lines) != 0 {
		t.Fatalf("timeout read logged: %+v", lines)
	}
}

var _ io.ReadWriteCloser = (*scriptedTransport)(nil)
