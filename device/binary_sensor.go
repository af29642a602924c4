// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"encoding/json"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// BinarySensor is a scalar boolean entity (door/motion/occupancy, etc).
type BinarySensor struct {
	Base
	DeviceClass string
	Icon        string

	state        bool
	hasState     bool
}

// NewBinarySensor constructs a binary_sensor entity; objectID/uniqueID may
// be left empty to derive them from name.
func NewBinarySensor(name, objectID, uniqueID, deviceClass, icon string) *BinarySensor {
	return &BinarySensor{
		Base:        NewBase(name, DomainBinarySensor, objectID, uniqueID),
		DeviceClass: deviceClass,
		Icon:        icon,
	}
}

// State returns the current boolean value and whether it has ever been set.
func (s *BinarySensor) State() (bool, bool) { return s.state, s.hasState }

// SetState updates the sensor's value, publishing state_change only if the
// value actually differs from the current one (per the scalar-entity
// contract shared by binary_sensor/sensor/number/switch).
func (s *BinarySensor) SetState(v bool) {
	if s.hasState && s.state == v {
		return
	}
	s.state = v
	s.hasState = true
	s.publish(KindStateChange, Event{Key: s.Key(), Message: s.Snapshot()})
}

func (s *BinarySensor) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesBinarySensorResponse{
		ObjectId:    s.ObjectID(),
		Key:         s.Key(),
		Name:        s.Name(),
		UniqueId:    s.UniqueID(),
		DeviceClass: s.DeviceClass,
		Icon:        s.Icon,
	}
}

func (s *BinarySensor) Snapshot() interface{} {
	return &aioesphomeapi.BinarySensorStateResponse{
		Key:          s.Key(),
		State:        s.state,
		MissingState: !s.hasState,
	}
}

func (s *BinarySensor) StateJSON() string {
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

func (s *BinarySensor) CanHandle(EventKind, Event) bool { return true }
func (s *BinarySensor) Handle(EventKind, Event)         {}
func (s *BinarySensor) AddRoutes(Router)                {}
