// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// TestSwitchCommandScenario implements S2: a switch command flips its
// state and emits exactly one state_change.
func TestSwitchCommandScenario(t *testing.T) {
	d := newTestDevice()
	lamp := NewSwitch("Lamp", "", "", "", "")
	if err := d.AddEntity(lamp); err != nil {
		t.Fatal(err)
	}
	if lamp.Key() != 1 {
		t.Fatalf("key = %d, want 1", lamp.Key())
	}

	watcher := newStateChangeWatcher("watcher")
	if err := d.AddEntity(watcher); err != nil {
		t.Fatal(err)
	}

	cmd := &aioesphomeapi.SwitchCommandRequest{Key: 1, State: true}
	d.Publish(nil, KindClientRequest, Event{Key: cmd.Key, Message: cmd})

	if v, _ := lamp.State(); !v {
		t.Fatal("lamp state did not flip to true")
	}
	if len(watcher.got) != 1 {
		t.Fatalf("watcher saw %d events, want 1", len(watcher.got))
	}
	resp, ok := watcher.got[0].Message.(*aioesphomeapi.SwitchStateResponse)
	if !ok || !resp.State {
		t.Fatalf("watcher event = %#v, want SwitchStateResponse{State:true}", watcher.got[0].Message)
	}

	// Repeating the identical command must not produce a second event.
	d.Publish(nil, KindClientRequest, Event{Key: cmd.Key, Message: cmd})
	if len(watcher.got) != 1 {
		t.Fatalf("repeated command produced %d events, want still 1", len(watcher.got))
	}
}
