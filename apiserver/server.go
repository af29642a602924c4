// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package apiserver implements the ESPHome native API TCP server: the
// per-connection handshake state machine, heartbeat, stale-connection
// reaper, and the bus glue that forwards state_change/log events to
// subscribed clients.
package apiserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/periphsim/esphome-device/aioesphomeapi"
	"github.com/periphsim/esphome-device/device"
)

const (
	pingInterval   = 30 * time.Second
	pingTimeout    = 5 * time.Second
	reaperInterval = 60 * time.Second
)

// Server is the native API TCP server. It registers itself on the
// device's bus as an entity so it receives state_change/log events the
// same way every other subscriber does (see DESIGN.md).
type Server struct {
	device.Base

	dev   *device.Device
	clock clockwork.Clock

	ln net.Listener
	wg sync.WaitGroup

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// New builds a server bound to dev. It must be registered with
// dev.AddEntity before Start is called, so the bus delivers it events.
func New(dev *device.Device, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		Base:  device.NewBase("_api_server", "", "_api_server", "_api_server"),
		dev:   dev,
		clock: clock,
		conns: map[*conn]struct{}{},
	}
}

// Start binds the listener and runs the accept loop and reaper in the
// background until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("apiserver: bind %s: %w", addr, err)
	}
	s.ln = ln

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.reapLoop(ctx)
	}()
	return nil
}

// Addr returns the bound listener address; valid only after Start.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close stops the accept loop, closes every connection, and waits for the
// background goroutines to exit.
func (s *Server) Close() error {
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	s.mu.Lock()
	for c := range s.conns {
		c.closeNow()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			return
		}
		c := newConn(nc, s)
		s.dev.Logf(device.LogDebug, "_api_server", "conn=%s accepted from %s", c.id, nc.RemoteAddr())
		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c.run(ctx)
			s.mu.Lock()
			delete(s.conns, c)
			s.mu.Unlock()
		}()
	}
}

// reapLoop drops connections whose underlying socket has already closed,
// per the spec's background stale-connection reaper.
func (s *Server) reapLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(reaperInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.mu.Lock()
			for c := range s.conns {
				if c.isClosed() {
					delete(s.conns, c)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Describe/Snapshot/StateJSON: the server has no wire representation of
// its own.
func (s *Server) Describe() interface{} { return nil }
func (s *Server) Snapshot() interface{} { return nil }
func (s *Server) StateJSON() string     { return "" }
func (s *Server) AddRoutes(device.Router) {}

// CanHandle accepts state_change and log events, the two kinds it
// forwards to subscribed connections; it has no interest in
// client_request, which it is itself the source of.
func (s *Server) CanHandle(kind device.EventKind, _ device.Event) bool {
	return kind == device.KindStateChange || kind == device.KindLog
}

func (s *Server) Handle(kind device.EventKind, evt device.Event) {
	switch kind {
	case device.KindStateChange:
		s.forwardState(evt.Message)
	case device.KindLog:
		pair, ok := evt.Message.([2]interface{})
		if !ok {
			return
		}
		level, _ := pair[0].(int)
		text, _ := pair[1].(string)
		s.forwardLog(uint32(level), text)
	}
}

func (s *Server) forwardState(msg interface{}) {
	for _, c := range s.snapshotConns() {
		if c.statesSub {
			_ = c.reply(msg)
		}
	}
}

func (s *Server) forwardLog(level uint32, text string) {
	msg := &aioesphomeapi.SubscribeLogsResponse{Level: level, Message: text}
	for _, c := range s.snapshotConns() {
		if c.logsSub {
			_ = c.reply(msg)
		}
	}
}

func (s *Server) snapshotConns() []*conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c)
	}
	return out
}
