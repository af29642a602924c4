// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/periphsim/esphome-device/device"
)

// TestSSEBootstrap implements S6: connecting to /events on a device with
// three entities with non-null state_json yields those three "state"
// events, in entity insertion order, before anything else is sent.
func TestSSEBootstrap(t *testing.T) {
	dev := device.New(device.Info{Name: "kitchen"})
	door := device.NewBinarySensor("Door", "door", "", "door", "")
	lamp := device.NewSwitch("Lamp", "lamp", "", "", "")
	bulb := device.NewLight("Bulb", "bulb", "", nil, nil)
	for _, e := range []device.Entity{door, lamp, bulb} {
		if err := dev.AddEntity(e); err != nil {
			t.Fatal(err)
		}
	}
	door.SetState(true) // BinarySensor.StateJSON is "" until a state is set
	srv := New(dev)
	if err := dev.AddEntity(srv); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	wantIDs := []string{door.ObjectID(), lamp.ObjectID(), bulb.ObjectID()}
	for i, id := range wantIDs {
		name := readSSEEventName(t, reader)
		if name != "state" {
			t.Fatalf("event %d name = %q, want state", i, name)
		}
		body := readSSEData(t, reader)
		if !strings.Contains(body, id) {
			t.Fatalf("event %d body %q does not mention entity %q", i, body, id)
		}
	}
}

func readSSEEventName(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimPrefix(strings.TrimSuffix(line, "\n"), "event: ")
}

func readSSEData(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	data := strings.TrimPrefix(strings.TrimSuffix(line, "\n"), "data: ")
	// consume the blank line terminating the SSE record
	if _, err := r.ReadString('\n'); err != nil {
		t.Fatal(err)
	}
	return data
}
