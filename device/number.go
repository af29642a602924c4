// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/periphsim/esphome-device/aioesphomeapi"
)

// Number is a scalar float entity with a bounded, steppable range,
// commandable over the native API and over HTTP.
type Number struct {
	Base
	Icon              string
	MinValue          float32
	MaxValue          float32
	Step              float32
	UnitOfMeasurement string

	state    float32
	hasState bool
}

// NewNumber constructs a number entity.
func NewNumber(name, objectID, uniqueID, icon string, min, max, step float32, unit string) *Number {
	return &Number{
		Base:              NewBase(name, DomainNumber, objectID, uniqueID),
		Icon:              icon,
		MinValue:          min,
		MaxValue:          max,
		Step:              step,
		UnitOfMeasurement: unit,
		state:             min,
	}
}

// State returns the current value and whether it has ever been set.
func (n *Number) State() (float32, bool) { return n.state, n.hasState }

// SetState clamps v into [MinValue, MaxValue] and applies it, publishing
// state_change only if it differs from the current value.
func (n *Number) SetState(v float32) {
	if v < n.MinValue {
		v = n.MinValue
	}
	if v > n.MaxValue {
		v = n.MaxValue
	}
	if n.hasState && n.state == v {
		return
	}
	n.state = v
	n.hasState = true
	n.publish(KindStateChange, Event{Key: n.Key(), Message: n.Snapshot()})
}

func (n *Number) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesNumberResponse{
		ObjectId:          n.ObjectID(),
		Key:               n.Key(),
		Name:              n.Name(),
		UniqueId:          n.UniqueID(),
		Icon:              n.Icon,
		MinValue:          n.MinValue,
		MaxValue:          n.MaxValue,
		Step:              n.Step,
		UnitOfMeasurement: n.UnitOfMeasurement,
	}
}

func (n *Number) Snapshot() interface{} {
	return &aioesphomeapi.NumberStateResponse{Key: n.Key(), State: n.state, MissingState: !n.hasState}
}

func (n *Number) StateJSON() string {
	if !n.hasState {
		return ""
	}
	b, _ := json.Marshal(map[string]interface{}{
		"id":    n.ObjectID(),
		"state": n.state,
	})
	return string(b)
}

func (n *Number) CanHandle(EventKind, Event) bool { return true }

func (n *Number) Handle(kind EventKind, evt Event) {
	if kind != KindClientRequest {
		return
	}
	cmd, ok := evt.Message.(*aioesphomeapi.NumberCommandRequest)
	if !ok || cmd.Key != n.Key() {
		return
	}
	n.SetState(cmd.State)
}

func (n *Number) AddRoutes(r Router) {
	prefix := "/number/" + n.ObjectID()
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, n.StateJSON())
	})
	r.Post(prefix+"/set", func(w http.ResponseWriter, req *http.Request) {
		if v := req.URL.Query().Get("value"); v != "" {
			if f, err := strconv.ParseFloat(v, 32); err == nil {
				n.SetState(float32(f))
			}
		}
		writeJSON(w, n.StateJSON())
	})
}
