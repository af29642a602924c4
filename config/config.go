// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config contains the structures used to represent the YAML file
// that configures a simulated device.
//
// The file schema starts with the type Root.
//
// Configuration
//
// The configuration yaml file is expected to look like this:
//
//   device:
//     name: kitchen
//
//   api:
//     port: 6053
//
//   binary_sensor:
//     - name: "Door"
//       device_class: door
//
//   switch:
//     - name: "Lamp"
//
//   light:
//     - name: "Ceiling"
//       color_modes: [rgb]
//
//   listener:
//     - name: "Door mirrors switch"
//       watches: lamp
//       target: door
//
package config

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v2"
)

// Root is the configuration file format.
type Root struct {
	Device        Device         `yaml:"device"`
	API           API            `yaml:"api"`
	BinarySensors []BinarySensor `yaml:"binary_sensor"`
	Sensors       []Sensor       `yaml:"sensor"`
	Switches      []Switch       `yaml:"switch"`
	Numbers       []Number       `yaml:"number"`
	Lights        []Light        `yaml:"light"`
	Climates      []Climate      `yaml:"climate"`
	Listeners     []Listener     `yaml:"listener"`

	_ struct{}
}

// LoadYaml loads the config from serialized yaml.
//
// It is a utility function that deserializes the yaml with strict
// checking and then validates the result. Validation is not exhaustive; it
// could still fail to wire up when passed to the runtime.
func (r *Root) LoadYaml(b []byte) error {
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.SetStrict(true)
	if err := d.Decode(r); err != nil {
		return err
	}
	return r.validate()
}

func (r *Root) validate() error {
	if err := r.Device.validate(); err != nil {
		return err
	}
	if err := r.API.validate(); err != nil {
		return err
	}
	for i := range r.BinarySensors {
		if err := r.BinarySensors[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Sensors {
		if err := r.Sensors[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Switches {
		if err := r.Switches[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Numbers {
		if err := r.Numbers[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Lights {
		if err := r.Lights[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Climates {
		if err := r.Climates[i].validate(); err != nil {
			return err
		}
	}
	for i := range r.Listeners {
		if err := r.Listeners[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// Device is the "device" section: static identity reported over the
// native API and mDNS.
type Device struct {
	Name           string
	Manufacturer   string
	Model          string
	ProjectName    string `yaml:"project_name"`
	ProjectVersion string `yaml:"project_version"`
	Comment        string

	_ struct{}
}

func (d *Device) validate() error {
	if d.Name == "" {
		return errors.New("device: name is required")
	}
	if len(d.Name) > 63 {
		return errors.New("device: name is too long")
	}
	return nil
}

// API is the "api" section.
type API struct {
	Port      int
	Password  string
	IsPresent bool `yaml:"-"`

	_ struct{}
}

type apiAlias struct {
	Port     int
	Password string
}

// UnmarshalYAML implements yaml.Unmarshaler, so IsPresent can distinguish
// an omitted section from an explicit empty one.
func (a *API) UnmarshalYAML(unmarshal func(interface{}) error) error {
	t := apiAlias{}
	if err := unmarshal(&t); err != nil {
		return err
	}
	a.Port = t.Port
	a.Password = t.Password
	a.IsPresent = true
	return nil
}

func (a *API) validate() error {
	if a.Port < 0 || a.Port >= 65536 {
		return errors.New("api: port is invalid")
	}
	return nil
}

// BinarySensor is an element in the "binary_sensor" section.
type BinarySensor struct {
	Name        string
	ObjectID    string `yaml:"id"`
	DeviceClass string `yaml:"device_class"`
	Icon        string

	_ struct{}
}

func (b *BinarySensor) validate() error {
	if b.Name == "" {
		return errors.New("binary_sensor: name is required")
	}
	return nil
}

// Sensor is an element in the "sensor" section.
type Sensor struct {
	Name             string
	ObjectID         string `yaml:"id"`
	Icon             string
	UnitOfMeasurement string `yaml:"unit_of_measurement"`
	AccuracyDecimals uint32 `yaml:"accuracy_decimals"`
	DeviceClass      string `yaml:"device_class"`
	ForceUpdate      bool   `yaml:"force_update"`
	UpdateInterval   time.Duration `yaml:"update_interval"`

	_ struct{}
}

func (s *Sensor) validate() error {
	if s.Name == "" {
		return errors.New("sensor: name is required")
	}
	return nil
}

// Switch is an element in the "switch" section.
type Switch struct {
	Name         string
	ObjectID     string `yaml:"id"`
	Icon         string
	DeviceClass  string `yaml:"device_class"`
	AssumedState bool   `yaml:"assumed_state"`

	_ struct{}
}

func (s *Switch) validate() error {
	if s.Name == "" {
		return errors.New("switch: name is required")
	}
	return nil
}

// Number is an element in the "number" section.
type Number struct {
	Name              string
	ObjectID          string `yaml:"id"`
	Icon              string
	Min               float32 `yaml:"min_value"`
	Max               float32 `yaml:"max_value"`
	Step              float32
	UnitOfMeasurement string `yaml:"unit_of_measurement"`

	_ struct{}
}

func (n *Number) validate() error {
	if n.Name == "" {
		return errors.New("number: name is required")
	}
	if n.Max <= n.Min {
		return errors.New("number: max_value must be greater than min_value")
	}
	return nil
}

// Light is an element in the "light" section.
type Light struct {
	Name       string
	ObjectID   string `yaml:"id"`
	ColorModes []string `yaml:"color_modes"`
	Effects    []string

	_ struct{}
}

func (l *Light) validate() error {
	if l.Name == "" {
		return errors.New("light: name is required")
	}
	for _, m := range l.ColorModes {
		switch m {
		case "onoff", "brightness", "white", "color_temperature", "cold_warm_white",
			"rgb", "rgb_white", "rgb_cold_warm_white", "rgb_color_temperature":
		default:
			return fmt.Errorf("light: unknown color mode %q", m)
		}
	}
	return nil
}

// Climate is an element in the "climate" section.
type Climate struct {
	Name                 string
	ObjectID             string  `yaml:"id"`
	TwoPointTarget       bool    `yaml:"two_point_target"`
	VisualMinTemperature float32 `yaml:"visual_min_temperature"`
	VisualMaxTemperature float32 `yaml:"visual_max_temperature"`
	VisualTemperatureStep float32 `yaml:"visual_temperature_step"`
	SupportsCurrentHumidity bool `yaml:"supports_current_humidity"`
	SupportsTargetHumidity  bool `yaml:"supports_target_humidity"`

	_ struct{}
}

func (c *Climate) validate() error {
	if c.Name == "" {
		return errors.New("climate: name is required")
	}
	if c.VisualMaxTemperature <= c.VisualMinTemperature {
		return errors.New("climate: visual_max_temperature must be greater than visual_min_temperature")
	}
	return nil
}

// Listener is an element in the "listener" section: an internal entity
// that mirrors the state of the entity named by Watches onto the entity
// named by Target.
type Listener struct {
	Name     string
	ObjectID string `yaml:"id"`
	Watches  string
	Target   string

	_ struct{}
}

func (l *Listener) validate() error {
	if l.Watches == "" {
		return errors.New("listener: watches is required")
	}
	if l.Target == "" {
		return errors.New("listener: target is required")
	}
	return nil
}
