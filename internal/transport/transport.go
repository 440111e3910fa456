// internal/transport/transport.go
package transport

import (
	"errors"
	"io"
	"sync"
)

// ErrTimeout marks a poll that ended with no data. Callers treat it as
// "no event, retry", never as a fault.
var ErrTimeout = errors.New("transport: read timeout")

// Transport is one open byte-stream connection to the device.
// Read blocks at most the configured poll timeout and returns
// ErrTimeout when nothing arrived.
type Transport interface {
	io.ReadWriteCloser
	Name() string
}

// Link is the shared handle reference through which all units reach the
// current transport. The connection loop owns Set and the reader owns
// Drop; everyone else must tolerate a nil Get at any time.
type Link struct {
	mu sync.Mutex
	tr Transport
}

// NewLink returns an empty link.
func NewLink() *Link {
	return &Link{}
}

// Set installs a freshly opened transport.
func (l *Link) Set(tr Transport) {
	l.mu.Lock()
	l.tr = tr
	l.mu.Unlock()
}

// Get returns the current transport, or nil when disconnected.
func (l *Link) Get() Transport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tr
}

// Drop closes and forgets the current transport. Safe when empty.
func (l *Link) Drop() {
	l.mu.Lock()
	tr := l.tr
	l.tr = nil
	l.mu.Unlock()

	if tr != nil {
		tr.Close()
	}
}

// Connected reports whether a transport is currently installed.
func (l *Link) Connected() bool {
	return l.Get() != nil
}

// SendCommand writes one newline-terminated command line.
// Returns an error when no transport is installed or the write fails.
func (l *Link) SendCommand(command string) error {
	tr := l.Get()
	if tr == nil {
		return errors.New("transport: device is not connected")
	}
	if len(command) == 0 || command[len(command)-1] != '\n' {
		command += "\n"
	}
	if _, err := tr.Write([]byte(command)); err != nil {
		// Write failure means the stream is gone; the connection
		// loop will retry discovery.
		l.Drop()
		return err
	}
	return nil
}
