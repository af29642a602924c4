// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sampleConf = `
device:
  name: kitchen
  manufacturer: periphsim
  model: simulated-esp32

api:
  port: 6053
  password: "hunter2"

binary_sensor:
  - name: "Door"
    device_class: door

switch:
  - name: "Lamp"

light:
  - name: "Ceiling"
    color_modes: [rgb]

listener:
  - name: "Door mirrors switch"
    watches: lamp
    target: door
`

func TestRootLoadYaml(t *testing.T) {
	got := Root{}
	if err := got.LoadYaml([]byte(sampleConf)); err != nil {
		t.Fatal(err)
	}
	want := Root{
		Device: Device{Name: "kitchen", Manufacturer: "periphsim", Model: "simulated-esp32"},
		API:    API{Port: 6053, Password: "hunter2", IsPresent: true},
		BinarySensors: []BinarySensor{
			{Name: "Door", DeviceClass: "door"},
		},
		Switches: []Switch{{Name: "Lamp"}},
		Lights:   []Light{{Name: "Ceiling", ColorModes: []string{"rgb"}}},
		Listeners: []Listener{
			{Name: "Door mirrors switch", Watches: "lamp", Target: "door"},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Root{})); diff != "" {
		t.Fatalf("LoadYaml() mismatch (-want +got):\n%s", diff)
	}
}

func TestRootLoadYamlRejectsUnknownKeys(t *testing.T) {
	got := Root{}
	err := got.LoadYaml([]byte("devise:\n  name: typo\n"))
	if err == nil {
		t.Fatal("expected strict decoding to reject an unknown top-level key")
	}
}

func TestAPIDefaultsToAbsent(t *testing.T) {
	got := Root{}
	if err := got.LoadYaml([]byte("device:\n  name: x\n")); err != nil {
		t.Fatal(err)
	}
	if got.API.IsPresent {
		t.Fatal("API.IsPresent = true with no api: section")
	}
}

func TestLightRejectsUnknownColorMode(t *testing.T) {
	l := Light{Name: "x", ColorModes: []string{"not-a-mode"}}
	if err := l.validate(); err == nil {
		t.Fatal("expected validate() to reject an unknown color mode")
	}
}

func TestNumberRejectsInvertedRange(t *testing.T) {
	n := Number{Name: "x", Min: 10, Max: 0}
	if err := n.validate(); err == nil {
		t.Fatal("expected validate() to reject max <= min")
	}
}
