// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"encoding/json"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// Sensor is a scalar float entity (temperature, humidity, wifi signal...).
type Sensor struct {
	Base
	Icon              string
	UnitOfMeasurement string
	AccuracyDecimals  uint32
	DeviceClass       string
	StateClass        uint32
	ForceUpdate       bool

	state    float32
	hasState bool
}

// NewSensor constructs a sensor entity.
func NewSensor(name, objectID, uniqueID, icon, unit string, accuracyDecimals uint32, deviceClass string) *Sensor {
	return &Sensor{
		Base:              NewBase(name, DomainSensor, objectID, uniqueID),
		Icon:              icon,
		UnitOfMeasurement: unit,
		AccuracyDecimals:  accuracyDecimals,
		DeviceClass:       deviceClass,
	}
}

// State returns the current value and whether it has ever been set.
func (s *Sensor) State() (float32, bool) { return s.state, s.hasState }

// SetState updates the sensor's reading, publishing state_change only when
// it differs from the current value (or ForceUpdate requests otherwise).
func (s *Sensor) SetState(v float32) {
	if s.hasState && s.state == v && !s.ForceUpdate {
		return
	}
	s.state = v
	s.hasState = true
	s.publish(KindStateChange, Event{Key: s.Key(), Message: s.Snapshot()})
}

func (s *Sensor) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesSensorResponse{
		ObjectId:          s.ObjectID(),
		Key:               s.Key(),
		Name:              s.Name(),
		UniqueId:          s.UniqueID(),
		Icon:              s.Icon,
		UnitOfMeasurement: s.UnitOfMeasurement,
		AccuracyDecimals:  s.AccuracyDecimals,
		DeviceClass:       s.DeviceClass,
		StateClass:        s.StateClass,
		ForceUpdate:       s.ForceUpdate,
	}
}

func (s *Sensor) Snapshot() interface{} {
	return &aioesphomeapi.SensorStateResponse{
		Key:          s.Key(),
		State:        s.state,
		MissingState: !s.hasState,
	}
}

func (s *Sensor) StateJSON() string {
	if !s.hasState {
		return ""
	}
	b, _ := json.Marshal(map[string]interface{}{
		"id":     s.ObjectID(),
		"domain": string(s.Domain()),
		"state":  s.state,
	})
	return string(b)
}

func (s *Sensor) CanHandle(EventKind, Event) bool { return true }
func (s *Sensor) Handle(EventKind, Event)         {}
func (s *Sensor) AddRoutes(Router)                {}
