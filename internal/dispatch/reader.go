// internal/dispatch/reader.go
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/espscout/espscout/internal/logging"
	"github.com/espscout/espscout/internal/protocol"
	"github.com/espscout/espscout/internal/transport"
)

// idleRetry is how long the reader sleeps while no transport is
// installed.
const idleRetry = 500 * time.Millisecond

// Reader is the transport-polling unit. Sole owner of the decoder and
// its pending buffer. One goroutine, no overlap.
type Reader struct {
	link    *transport.Link
	decoder *protocol.Decoder
	disp    *Dispatcher
	sink    logging.Sink
}

// NewReader wires a reader.
func NewReader(link *transport.Link, disp *Dispatcher, sink logging.Sink) *Reader {
	return &Reader{
		link:    link,
		decoder: protocol.NewDecoder(),
		disp:    disp,
		sink:    sink,
	}
}

// Run polls the transport until ctx is done. A missing transport is
// "no data yet"; a read fault is a disconnect, never fatal.
func (r *Reader) Run(ctx context.Context) {
	buf := make([]byte, 512)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tr := r.link.Get()
		if tr == nil {
			r.decoder.Reset()
			sleep(ctx, idleRetry)
			continue
		}

		n, err := tr.Read(buf)
		if n > 0 {
			for _, ev := range r.decoder.Feed(buf[:n]) {
				r.disp.Handle(ev)
			}
		}
		if err != nil && !errors.Is(err, transport.ErrTimeout) {
			r.sink.Emit("Device disconnected.", logging.Warning, logging.TagNone)
			r.link.Drop()
			r.decoder.Reset()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
