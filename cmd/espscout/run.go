// cmd/espscout/run.go
package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/espscout/espscout/internal/config"
	"github.com/espscout/espscout/internal/console"
	"github.com/espscout/espscout/internal/dispatch"
	"github.com/espscout/espscout/internal/hostinfo"
	"github.com/espscout/espscout/internal/logging"
	"github.com/espscout/espscout/internal/prompt"
	"github.com/espscout/espscout/internal/store"
	"github.com/espscout/espscout/internal/transport"
	"github.com/espscout/espscout/internal/transport/serialport"
	"github.com/espscout/espscout/internal/waiter"
)

const (
	// settleDelay lets the device finish its boot chatter after open
	// before the console starts talking to it.
	settleDelay = 1500 * time.Millisecond

	discoveryRetry = 5 * time.Second
	linkCheck      = 1 * time.Second
	consoleDrain   = 1500 * time.Millisecond
)

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink := logging.New(cfg.Controller.LogFile)
	registry := waiter.NewRegistry()
	gate := prompt.NewGate(registry)
	link := transport.NewLink()

	consoleIO, err := console.NewReadlineIO(cfg.Controller.HistoryFile)
	if err != nil {
		return fmt.Errorf("espscout: %w", err)
	}

	sink.Emit("Device controller initializing...", logging.Info, logging.TagNone)

	reader := dispatch.NewReader(link, dispatch.New(sink, registry, gate), sink)
	go reader.Run(ctx)

	session := console.NewSession(console.Deps{
		IO:       consoleIO,
		Sink:     sink,
		Gate:     gate,
		Link:     link,
		Networks: store.NewFileStore(cfg.Controller.NetworksFile),
		Info:     hostinfo.Command{},
		Shutdown: cancel,
	})

	consoleDone := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(consoleDone)
	}()

	connectLoop(ctx, cfg.Controller, link, sink)

	// Shutdown: drop the transport, unblock any pending line read, and
	// give the console loop a moment to wind down.
	link.Drop()
	if closer, ok := consoleIO.(io.Closer); ok {
		closer.Close()
	}
	select {
	case <-consoleDone:
	case <-time.After(consoleDrain):
	}

	sink.Emit("Controller shut down.", logging.Info, logging.TagNone)
	return nil
}

// connectLoop owns transport discovery: while the link is empty it
// tries each configured port in order, then keeps watching. The reader
// drops the link on faults; this loop re-establishes it.
func connectLoop(ctx context.Context, cfg config.ControllerConfig, link *transport.Link, sink logging.Sink) {
	for ctx.Err() == nil {
		if !link.Connected() {
			tr := openFirst(cfg, sink)
			if tr == nil {
				sleep(ctx, discoveryRetry)
				continue
			}
			link.Set(tr)
			sink.Emit(fmt.Sprintf("Connected to device on %s.", tr.Name()), logging.Info, logging.TagNone)
			sleep(ctx, settleDelay)
		}
		sleep(ctx, linkCheck)
	}
}

// openFirst tries each candidate port once. ONE attempt per port per
// discovery round.
func openFirst(cfg config.ControllerConfig, sink logging.Sink) transport.Transport {
	for _, address := range cfg.Ports {
		tr, err := serialport.Open(serialport.Config{
			Address: address,
			Baud:    cfg.BaudRate,
			Timeout: cfg.ReadTimeout(),
		})
		if err == nil {
			return tr
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
