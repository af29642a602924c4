// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// TestLightRGBScenario implements S4: an RGB command flips on/red/green/
// blue in one state_change; repeating it produces none.
func TestLightRGBScenario(t *testing.T) {
	d := newTestDevice()
	light := NewLight("Lamp", "", "", []int32{aioesphomeapi.ColorModeRGB}, nil)
	watcher := newStateChangeWatcher("watcher")
	if err := d.AddEntity(light); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEntity(watcher); err != nil {
		t.Fatal(err)
	}

	cmd := &aioesphomeapi.LightCommandRequest{
		Key: light.Key(), HasState: true, State: true,
		HasRgb: true, Red: 0.5, Green: 0.25, Blue: 1.0,
	}
	d.Publish(nil, KindClientRequest, Event{Key: cmd.Key, Message: cmd})

	s := light.State()
	if !s.On || s.Red != 0.5 || s.Green != 0.25 || s.Blue != 1.0 {
		t.Fatalf("state = %+v, want on with rgb(0.5,0.25,1.0)", s)
	}
	if len(watcher.got) != 1 {
		t.Fatalf("watcher saw %d events, want 1", len(watcher.got))
	}

	d.Publish(nil, KindClientRequest, Event{Key: cmd.Key, Message: cmd})
	if len(watcher.got) != 1 {
		t.Fatalf("repeated command produced %d events, want still 1", len(watcher.got))
	}
}
