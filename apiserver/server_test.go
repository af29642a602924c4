// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package apiserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/periphsim/esphome-device/aioesphomeapi"
	"github.com/periphsim/esphome-device/device"
	"github.com/periphsim/esphome-device/frame"
)

func newTestServer(t *testing.T) (*Server, *device.Device, clockwork.FakeClock) {
	t.Helper()
	dev := device.New(device.Info{Name: "kitchen", MAC: "AA:BB:CC:DD:EE:FF"})
	clock := clockwork.NewFakeClock()
	srv := New(dev, clock)
	if err := dev.AddEntity(srv); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx, "127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, dev, clock
}

// client is a bare-bones native API client used only to drive the wire
// protocol in tests.
type client struct {
	nc net.Conn
}

func dial(t *testing.T, addr net.Addr) *client {
	t.Helper()
	nc, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { nc.Close() })
	return &client{nc: nc}
}

func (c *client) sendRequest(typ uint64, msg interface{}) error {
	payload, err := aioesphomeapi.Marshal(msg)
	if err != nil {
		return err
	}
	return frame.Write(c.nc, typ, payload)
}

func (c *client) recv(t *testing.T) frame.Frame {
	t.Helper()
	c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	fr, err := frame.Read(c.nc)
	if err != nil {
		t.Fatal(err)
	}
	return fr
}

// TestHandshakeScenario implements S1: Hello then Connect brings the
// connection to CONNECTED and DeviceInfo reflects the device's identity.
func TestHandshakeScenario(t *testing.T) {
	srv, _, _ := newTestServer(t)
	c := dial(t, srv.Addr())

	if err := c.sendRequest(1, &aioesphomeapi.HelloRequest{ClientInfo: "test", ApiVersionMajor: 1, ApiVersionMinor: 10}); err != nil {
		t.Fatal(err)
	}
	fr := c.recv(t)
	hello := &aioesphomeapi.HelloResponse{}
	if err := aioesphomeapi.Unmarshal(fr.Payload, hello); err != nil {
		t.Fatal(err)
	}
	if hello.Name != "kitchen" {
		t.Fatalf("HelloResponse.Name = %q, want kitchen", hello.Name)
	}

	if err := c.sendRequest(3, &aioesphomeapi.ConnectRequest{}); err != nil {
		t.Fatal(err)
	}
	fr = c.recv(t)
	conn := &aioesphomeapi.ConnectResponse{}
	if err := aioesphomeapi.Unmarshal(fr.Payload, conn); err != nil {
		t.Fatal(err)
	}
	if conn.InvalidPassword {
		t.Fatal("ConnectResponse.InvalidPassword = true, want false with no password configured")
	}

	if err := c.sendRequest(9, &aioesphomeapi.DeviceInfoRequest{}); err != nil {
		t.Fatal(err)
	}
	fr = c.recv(t)
	info := &aioesphomeapi.DeviceInfoResponse{}
	if err := aioesphomeapi.Unmarshal(fr.Payload, info); err != nil {
		t.Fatal(err)
	}
	if info.Name != "kitchen" || info.MacAddress != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("DeviceInfoResponse = %+v, want kitchen/AA:BB:CC:DD:EE:FF", info)
	}
}

// TestSwitchCommandOverTheWire implements S2 end to end: a SwitchCommandRequest
// decoded off a real socket flips the switch and the subscribed connection
// observes the resulting SwitchStateResponse.
func TestSwitchCommandOverTheWire(t *testing.T) {
	srv, dev, _ := newTestServer(t)
	lamp := device.NewSwitch("Lamp", "lamp", "", "", "")
	if err := dev.AddEntity(lamp); err != nil {
		t.Fatal(err)
	}

	c := dial(t, srv.Addr())
	if err := c.sendRequest(20, &aioesphomeapi.SubscribeStatesRequest{}); err != nil {
		t.Fatal(err)
	}

	// SubscribeStatesRequest triggers an immediate dump of every entity's
	// current snapshot; consume it before looking for the pushed update.
	initial := c.recv(t)
	initialState := &aioesphomeapi.SwitchStateResponse{}
	if err := aioesphomeapi.Unmarshal(initial.Payload, initialState); err != nil {
		t.Fatal(err)
	}
	if initialState.State {
		t.Fatalf("initial snapshot State = true, want false before any command")
	}

	cmd := &aioesphomeapi.SwitchCommandRequest{Key: lamp.Key(), State: true}
	if err := c.sendRequest(33, cmd); err != nil {
		t.Fatal(err)
	}

	fr := c.recv(t)
	state := &aioesphomeapi.SwitchStateResponse{}
	if err := aioesphomeapi.Unmarshal(fr.Payload, state); err != nil {
		t.Fatal(err)
	}
	if state.Key != lamp.Key() || !state.State {
		t.Fatalf("SwitchStateResponse = %+v, want key=%d state=true", state, lamp.Key())
	}
	if on, _ := lamp.State(); !on {
		t.Fatal("lamp state was not flipped")
	}
}

// TestDisconnectScenario implements S5: a DisconnectRequest gets an
// acknowledging DisconnectResponse and the server drops the connection.
func TestDisconnectScenario(t *testing.T) {
	srv, _, _ := newTestServer(t)
	c := dial(t, srv.Addr())

	if err := c.sendRequest(5, &aioesphomeapi.DisconnectRequest{}); err != nil {
		t.Fatal(err)
	}
	fr := c.recv(t)
	if fr.Type != 6 {
		t.Fatalf("got message type %d, want DisconnectResponse (6)", fr.Type)
	}

	c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if n, err := c.nc.Read(buf); n != 0 || err == nil {
		t.Fatalf("expected the server to close the socket after disconnect, read %d bytes err=%v", n, err)
	}
}
