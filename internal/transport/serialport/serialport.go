// internal/transport/serialport/serialport.go
package serialport

import (
	"errors"
	"time"

	"github.com/goburrow/serial"

	"github.com/espscout/espscout/internal/transport"
)

// Config is minimal open config.
type Config struct {
	Address string
	Baud    int
	Timeout time.Duration
}

// port adapts a goburrow serial port to transport.Transport.
type port struct {
	p    serial.Port
	name string
}

// Open opens one serial port. ONE attempt, no retries; the connection
// loop decides when to try again.
func Open(cfg Config) (transport.Transport, error) {
	if cfg.Address == "" {
		return nil, errors.New("serialport: address required")
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.Baud,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &port{p: p, name: cfg.Address}, nil
}

func (s *port) Read(b []byte) (int, error) {
	n, err := s.p.Read(b)
	if err == serial.ErrTimeout {
		return n, transport.ErrTimeout
	}
	return n, err
}

func (s *port) Write(b []byte) (int, error) {
	return s.p.Write(b)
}

func (s *port) Close() error {
	return s.p.Close()
}

func (s *port) Name() string {
	return s.name
}
