// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// TestListenerChainScenario implements S3: BinarySensor(key=1),
// Switch(key=2), Listener(watching "switch", mirrors onto the sensor).
// Flipping the switch must flip the sensor too, with exactly two
// state_change events on the bus and no recursive re-trigger.
func TestListenerChainScenario(t *testing.T) {
	d := newTestDevice()
	sensor := NewBinarySensor("Door", "door", "", "door", "")
	sw := NewSwitch("switch", "switch", "", "", "")
	watcher := newStateChangeWatcher("watcher")

	if err := d.AddEntity(sensor); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEntity(sw); err != nil {
		t.Fatal(err)
	}
	listener := NewListener("listener", "", "", "switch", sensor)
	if err := d.AddEntity(listener); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEntity(watcher); err != nil {
		t.Fatal(err)
	}

	if sensor.Key() != 1 || sw.Key() != 2 {
		t.Fatalf("keys = %d, %d, want 1, 2", sensor.Key(), sw.Key())
	}

	cmd := &aioesphomeapi.SwitchCommandRequest{Key: 2, State: true}
	d.Publish(nil, KindClientRequest, Event{Key: cmd.Key, Message: cmd})

	if v, _ := sensor.State(); !v {
		t.Fatal("listener did not mirror switch state onto the sensor")
	}
	if len(watcher.got) != 2 {
		t.Fatalf("watcher saw %d state_change events, want 2", len(watcher.got))
	}
}
