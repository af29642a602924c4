// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"encoding/json"
	"net/http"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// Switch is a scalar boolean entity commandable over the native API and
// over HTTP (turn_on/turn_off).
type Switch struct {
	Base
	Icon         string
	DeviceClass  string
	AssumedState bool

	state    bool
	hasState bool
}

// NewSwitch constructs a switch entity.
func NewSwitch(name, objectID, uniqueID, icon, deviceClass string) *Switch {
	return &Switch{
		Base:        NewBase(name, DomainSwitch, objectID, uniqueID),
		Icon:        icon,
		DeviceClass: deviceClass,
	}
}

// State returns the current value and whether it has ever been set.
func (s *Switch) State() (bool, bool) { return s.state, s.hasState }

// SetState applies val, publishing state_change only if it differs from
// the current value.
func (s *Switch) SetState(val bool) {
	if s.hasState && s.state == val {
		return
	}
	s.state = val
	s.hasState = true
	s.log(LogInfo, "[%s] setting state to %v", s.ObjectID(), val)
	s.publish(KindStateChange, Event{Key: s.Key(), Message: s.Snapshot()})
}

func (s *Switch) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesSwitchResponse{
		ObjectId:     s.ObjectID(),
		Key:          s.Key(),
		Name:         s.Name(),
		UniqueId:     s.UniqueID(),
		Icon:         s.Icon,
		AssumedState: s.AssumedState,
		DeviceClass:  s.DeviceClass,
	}
}

func (s *Switch) Snapshot() interface{} {
	return &aioesphomeapi.SwitchStateResponse{Key: s.Key(), State: s.state}
}

func (s *Switch) StateJSON() string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":     s.ObjectID(),
		"name":   s.Name(),
		"state":  onOff(s.state),
		"value":  s.state,
	})
	return string(b)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

// CanHandle accepts every event; Handle filters by message type and key so
// it only reacts to SwitchCommandRequest addressed to this entity.
func (s *Switch) CanHandle(EventKind, Event) bool { return true }

func (s *Switch) Handle(kind EventKind, evt Event) {
	if kind != KindClientRequest {
		return
	}
	cmd, ok := evt.Message.(*aioesphomeapi.SwitchCommandRequest)
	if !ok || cmd.Key != s.Key() {
		return
	}
	s.SetState(cmd.State)
}

func (s *Switch) AddRoutes(r Router) {
	prefix := "/switch/" + s.ObjectID()
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, s.StateJSON())
	})
	r.Post(prefix+"/turn_on", func(w http.ResponseWriter, req *http.Request) {
		s.SetState(true)
		writeJSON(w, s.StateJSON())
	})
	r.Post(prefix+"/turn_off", func(w http.ResponseWriter, req *http.Request) {
		s.SetState(false)
		writeJSON(w, s.StateJSON())
	})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
