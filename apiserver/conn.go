// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/periphsim/esphome-device/aioesphomeapi"
	"github.com/periphsim/esphome-device/device"
	"github.com/periphsim/esphome-device/frame"
)

// connState tracks the handshake state machine from the spec's native API
// connection diagram: INITIAL --Hello--> HELLO_SENT --Connect--> CONNECTED.
type connState int32

const (
	stateInitial connState = iota
	stateHelloSent
	stateConnected
)

// conn is one client connection to the native API server.
type conn struct {
	nc  net.Conn
	srv *Server
	id  string

	writeMu sync.Mutex
	state   connState

	logsSub   bool
	statesSub bool

	closed int32
}

func newConn(nc net.Conn, srv *Server) *conn {
	return &conn{nc: nc, srv: srv, id: uuid.NewString()}
}

func (c *conn) isClosed() bool { return atomic.LoadInt32(&c.closed) != 0 }

func (c *conn) closeNow() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.nc.Close()
	}
}

// reply encodes and writes msg, serialized against concurrent writers
// (the read loop and the heartbeat goroutine both write to the same
// socket).
func (c *conn) reply(msg interface{}) error {
	typ, ok := aioesphomeapi.TypeID(msg)
	if !ok {
		return fmt.Errorf("apiserver: no wire id for %T", msg)
	}
	payload, err := aioesphomeapi.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return frame.Write(c.nc, typ, payload)
}

// run drives the connection until the peer disconnects, a read fails, or a
// reply cannot be written. A message of unknown type, or one whose payload
// does not decode, is dropped and the connection carries on.
// It is the per-connection analogue of the spec's handleConnection loop.
func (c *conn) run(ctx context.Context) {
	defer c.closeNow()

	hctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.heartbeat(hctx)

	for {
		fr, err := frame.Read(c.nc)
		if err != nil {
			return
		}
		if err := c.dispatch(fr); err != nil {
			if errors.Is(err, frame.UnknownType) {
				continue
			}
			c.srv.dev.Logf(device.LogWarn, "_api_server", "conn=%s dropping connection: %v", c.id, err)
			return
		}
		if c.isClosed() {
			return
		}
	}
}

// heartbeat pings every 30s; the write itself must complete within 5s or
// the connection is treated as dead and reset, matching the spec's
// heartbeat timeout.
func (c *conn) heartbeat(ctx context.Context) {
	ticker := c.srv.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			done := make(chan error, 1)
			go func() { done <- c.reply(&aioesphomeapi.PingRequest{}) }()
			select {
			case err := <-done:
				if err != nil {
					c.closeNow()
					return
				}
			case <-c.srv.clock.After(pingTimeout):
				c.closeNow()
				return
			}
		}
	}
}

func (c *conn) dispatch(fr frame.Frame) error {
	t, ok := aioesphomeapi.Requests[fr.Type]
	if !ok {
		return fmt.Errorf("%w: %d", frame.UnknownType, fr.Type)
	}
	ptr := reflect.New(t)
	if err := aioesphomeapi.Unmarshal(fr.Payload, ptr.Interface()); err != nil {
		// A payload that does not decode drops only this message.
		return nil
	}
	msg := ptr.Interface()

	switch m := msg.(type) {
	case *aioesphomeapi.HelloRequest:
		c.state = stateHelloSent
		return c.reply(&aioesphomeapi.HelloResponse{
			ApiVersionMajor: 1,
			ApiVersionMinor: 10,
			ServerInfo:      "periphsim",
			Name:            c.srv.dev.Info.Name,
		})
	case *aioesphomeapi.ConnectRequest:
		invalid := c.srv.dev.Info.Password != "" && m.Password != c.srv.dev.Info.Password
		if !invalid {
			c.state = stateConnected
		}
		return c.reply(&aioesphomeapi.ConnectResponse{InvalidPassword: invalid})
	case *aioesphomeapi.DisconnectRequest:
		_ = c.reply(&aioesphomeapi.DisconnectResponse{})
		c.closeNow()
		return nil
	case *aioesphomeapi.PingRequest:
		return c.reply(&aioesphomeapi.PingResponse{})
	case *aioesphomeapi.GetTimeRequest:
		return c.reply(&aioesphomeapi.GetTimeResponse{EpochSeconds: uint32(c.srv.clock.Now().Unix())})
	case *aioesphomeapi.DeviceInfoRequest:
		return c.sendDeviceInfo()
	case *aioesphomeapi.ListEntitiesRequest:
		return c.sendEntityList()
	case *aioesphomeapi.SubscribeLogsRequest:
		c.logsSub = true
		return c.reply(&aioesphomeapi.SubscribeLogsResponse{Message: "Subscribed to logs"})
	case *aioesphomeapi.SubscribeStatesRequest:
		c.statesSub = true
		return c.sendAllStates()
	default:
		c.srv.dev.Publish(c.srv, device.KindClientRequest, device.Event{Key: extractKey(msg), Message: msg})
		return nil
	}
}

func (c *conn) sendDeviceInfo() error {
	info := c.srv.dev.Info
	return c.reply(&aioesphomeapi.DeviceInfoResponse{
		UsesPassword:     info.Password != "",
		Name:             info.Name,
		MacAddress:       info.MAC,
		EsphomeVersion:   info.EsphomeVersion,
		CompilationTime:  info.CompilationTime,
		Model:            info.Model,
		HasDeepSleep:     info.HasDeepSleep,
		ProjectName:      info.ProjectName,
		ProjectVersion:   info.ProjectVersion,
		ManufacturerName: info.Manufacturer,
		FriendlyName:     info.Name,
	})
}

func (c *conn) sendEntityList() error {
	for _, e := range c.srv.dev.Entities() {
		if d := e.Describe(); d != nil {
			if err := c.reply(d); err != nil {
				return err
			}
		}
	}
	return c.reply(&aioesphomeapi.ListEntitiesDoneResponse{})
}

func (c *conn) sendAllStates() error {
	for _, e := range c.srv.dev.Entities() {
		if s := e.Snapshot(); s != nil {
			if err := c.reply(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractKey reads the Key field carried by every domain command message,
// so client_request events can be filtered by target entity without a type
// switch over every possible command type.
func extractKey(msg interface{}) uint32 {
	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	f := v.FieldByName("Key")
	if !f.IsValid() || f.Kind() != reflect.Uint32 {
		return 0
	}
	return uint32(f.Uint())
}
