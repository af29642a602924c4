// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package runtime assembles a device.Device and its entities from a parsed
// config.Root, the step the teacher's node.New performed against hardware
// component configs.
package runtime

import (
	"crypto/rand"
	"fmt"

	"github.com/periphsim/esphome-device/aioesphomeapi"
	"github.com/periphsim/esphome-device/config"
	"github.com/periphsim/esphome-device/device"
)

// colorModeBits maps the config file's human-readable color mode names to
// the wire capability bitmask, per upstream LightColorCapability.
var colorModeBits = map[string]int32{
	"onoff":                 aioesphomeapi.ColorModeOnOff,
	"brightness":            aioesphomeapi.ColorModeBrightness,
	"white":                 aioesphomeapi.ColorModeWhite,
	"color_temperature":     aioesphomeapi.ColorModeColorTemperature,
	"cold_warm_white":       aioesphomeapi.ColorModeColdWarmWhite,
	"rgb":                   aioesphomeapi.ColorModeRGB,
	"rgb_white":             aioesphomeapi.ColorModeRGBWhite,
	"rgb_cold_warm_white":   aioesphomeapi.ColorModeRGBColdWarmWhite,
	"rgb_color_temperature": aioesphomeapi.ColorModeRGBColorTemperature,
}

// Build constructs a device and registers one entity per configured item.
// Sections are registered in a fixed order (binary_sensor, sensor, switch,
// number, light, climate, then listener) and the items of a section in file
// order, so dense keys are assigned deterministically.
func Build(cfg *config.Root) (*device.Device, error) {
	mac, err := randomMAC()
	if err != nil {
		return nil, err
	}

	dev := device.New(device.Info{
		Name:            cfg.Device.Name,
		MAC:             mac,
		Model:           cfg.Device.Model,
		Manufacturer:    cfg.Device.Manufacturer,
		ProjectName:     cfg.Device.ProjectName,
		ProjectVersion:  cfg.Device.ProjectVersion,
		EsphomeVersion:  "2023.12.0",
		CompilationTime: "",
		Password:        cfg.API.Password,
	})

	for _, bs := range cfg.BinarySensors {
		if err := dev.AddEntity(device.NewBinarySensor(bs.Name, bs.ObjectID, "", bs.DeviceClass, bs.Icon)); err != nil {
			return nil, err
		}
	}
	for _, s := range cfg.Sensors {
		sensor := device.NewSensor(s.Name, s.ObjectID, "", s.Icon, s.UnitOfMeasurement, s.AccuracyDecimals, s.DeviceClass)
		sensor.ForceUpdate = s.ForceUpdate
		if err := dev.AddEntity(sensor); err != nil {
			return nil, err
		}
	}
	for _, s := range cfg.Switches {
		if err := dev.AddEntity(device.NewSwitch(s.Name, s.ObjectID, "", s.Icon, s.DeviceClass)); err != nil {
			return nil, err
		}
	}
	for _, n := range cfg.Numbers {
		if err := dev.AddEntity(device.NewNumber(n.Name, n.ObjectID, "", n.Icon, n.Min, n.Max, n.Step, n.UnitOfMeasurement)); err != nil {
			return nil, err
		}
	}
	for _, l := range cfg.Lights {
		modes := make([]int32, 0, len(l.ColorModes))
		for _, m := range l.ColorModes {
			modes = append(modes, colorModeBits[m])
		}
		if err := dev.AddEntity(device.NewLight(l.Name, l.ObjectID, "", modes, l.Effects)); err != nil {
			return nil, err
		}
	}
	for _, c := range cfg.Climates {
		cl := device.NewClimate(c.Name, c.ObjectID, "", c.TwoPointTarget, c.VisualMinTemperature, c.VisualMaxTemperature, c.VisualTemperatureStep)
		cl.SupportsCurrentHumidity = c.SupportsCurrentHumidity
		cl.SupportsTargetHumidity = c.SupportsTargetHumidity
		if err := dev.AddEntity(cl); err != nil {
			return nil, err
		}
	}
	// Listeners are wired last: their Watches/Target entities must already
	// be registered.
	for _, ln := range cfg.Listeners {
		target, ok := dev.GetByObjectID(ln.Target)
		if !ok {
			return nil, fmt.Errorf("runtime: listener %q targets unknown entity %q", ln.Name, ln.Target)
		}
		if err := dev.AddEntity(device.NewListener(ln.Name, ln.ObjectID, "", ln.Watches, target)); err != nil {
			return nil, err
		}
	}

	return dev, nil
}

// randomMAC synthesizes a MAC with the fixed 02:00:00 prefix and the
// trailing three octets randomized. The config has no MAC setting, so Build
// uses a fresh one for every device it builds.
func randomMAC() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("02:00:00:%02x:%02x:%02x", b[0], b[1], b[2]), nil
}
