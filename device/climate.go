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

// ClimateState is the climate domain's state vector: mode, either a single
// target temperature or a two-point low/high pair (never both), current
// temperature, fan mode, swing mode, action, preset, and humidity.
type ClimateState struct {
	Mode                  int32
	TargetTemperature     float32
	TargetTemperatureLow  float32
	TargetTemperatureHigh float32
	CurrentTemperature    float32
	FanMode               int32
	SwingMode             int32
	CustomFanMode         string
	Action                int32
	Preset                int32
	CustomPreset          string
	CurrentHumidity       float32
	TargetHumidity        float32
}

// Climate is a thermostat-style entity. Its representation (single vs.
// two-point target temperature) and its declared capabilities are fixed at
// construction: the spec forbids switching representations at runtime.
type Climate struct {
	Base

	TwoPointTarget          bool
	SupportsCurrentTemp     bool
	SupportsAction          bool
	SupportsCurrentHumidity bool
	SupportsTargetHumidity  bool
	VisualMinTemperature    float32
	VisualMaxTemperature    float32
	VisualTargetTempStep    float32
	SupportedModes          []int32
	SupportedFanModes       []int32
	SupportedSwingModes     []int32
	SupportedCustomFanModes []string
	SupportedPresets        []int32
	SupportedCustomPresets  []string

	state ClimateState
}

// NewClimate constructs a climate entity. If twoPointTarget is true the
// entity exposes TargetTemperatureLow/High and rejects
// TargetTemperature commands; otherwise the reverse.
func NewClimate(name, objectID, uniqueID string, twoPointTarget bool, minTemp, maxTemp, step float32) *Climate {
	c := &Climate{
		Base:                 NewBase(name, DomainClimate, objectID, uniqueID),
		TwoPointTarget:       twoPointTarget,
		VisualMinTemperature: minTemp,
		VisualMaxTemperature: maxTemp,
		VisualTargetTempStep: step,
	}
	c.state.TargetTemperature = minTemp
	c.state.TargetTemperatureLow = minTemp
	c.state.TargetTemperatureHigh = maxTemp
	c.state.CurrentTemperature = minTemp
	return c
}

// State returns a copy of the current state vector.
func (c *Climate) State() ClimateState { return c.state }

func (c *Climate) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesClimateResponse{
		ObjectId:                          c.ObjectID(),
		Key:                               c.Key(),
		Name:                              c.Name(),
		UniqueId:                          c.UniqueID(),
		SupportsCurrentTemperature:        c.SupportsCurrentTemp,
		SupportsTwoPointTargetTemperature: c.TwoPointTarget,
		SupportedModes:                    c.SupportedModes,
		VisualMinTemperature:              c.VisualMinTemperature,
		VisualMaxTemperature:              c.VisualMaxTemperature,
		VisualTargetTemperatureStep:       c.VisualTargetTempStep,
		SupportsAction:                    c.SupportsAction,
		SupportedFanModes:                 c.SupportedFanModes,
		SupportedSwingModes:               c.SupportedSwingModes,
		SupportedCustomFanModes:           c.SupportedCustomFanModes,
		SupportedPresets:                  c.SupportedPresets,
		SupportedCustomPresets:            c.SupportedCustomPresets,
		SupportsCurrentHumidity:           c.SupportsCurrentHumidity,
		SupportsTargetHumidity:            c.SupportsTargetHumidity,
	}
}

func (c *Climate) Snapshot() interface{} {
	s := c.state
	return &aioesphomeapi.ClimateStateResponse{
		Key:                   c.Key(),
		Mode:                  s.Mode,
		CurrentTemperature:    s.CurrentTemperature,
		TargetTemperature:     s.TargetTemperature,
		TargetTemperatureLow:  s.TargetTemperatureLow,
		TargetTemperatureHigh: s.TargetTemperatureHigh,
		FanMode:               s.FanMode,
		SwingMode:             s.SwingMode,
		CustomFanMode:         s.CustomFanMode,
		Action:                s.Action,
		Preset:                s.Preset,
		CustomPreset:          s.CustomPreset,
		CurrentHumidity:       s.CurrentHumidity,
		TargetHumidity:        s.TargetHumidity,
	}
}

func (c *Climate) StateJSON() string {
	s := c.state
	data := map[string]interface{}{
		"mode":                s.Mode,
		"current_temperature": s.CurrentTemperature,
		"fan_mode":            s.FanMode,
		"swing_mode":          s.SwingMode,
		"action":              s.Action,
		"preset":              s.Preset,
	}
	if c.TwoPointTarget {
		data["target_temperature_low"] = s.TargetTemperatureLow
		data["target_temperature_high"] = s.TargetTemperatureHigh
	} else {
		data["target_temperature"] = s.TargetTemperature
	}
	if c.SupportsCurrentHumidity || c.SupportsTargetHumidity {
		data["current_humidity"] = s.CurrentHumidity
		data["target_humidity"] = s.TargetHumidity
	}
	b, _ := json.Marshal(data)
	return string(b)
}

func (c *Climate) CanHandle(EventKind, Event) bool { return true }

func (c *Climate) Handle(kind EventKind, evt Event) {
	if kind != KindClientRequest {
		return
	}
	cmd, ok := evt.Message.(*aioesphomeapi.ClimateCommandRequest)
	if !ok || cmd.Key != c.Key() {
		return
	}
	c.applyCommand(cmd)
}

// applyCommand applies only capabilities this entity was constructed with,
// and only the command fields whose has_* guard is set.
func (c *Climate) applyCommand(cmd *aioesphomeapi.ClimateCommandRequest) {
	changed := false
	if cmd.HasMode {
		c.state.Mode, changed = cmd.Mode, true
	}
	if cmd.HasTargetTemperature && !c.TwoPointTarget {
		c.state.TargetTemperature, changed = cmd.TargetTemperature, true
	}
	if cmd.HasTargetTemperatureLow && c.TwoPointTarget {
		c.state.TargetTemperatureLow, changed = cmd.TargetTemperatureLow, true
	}
	if cmd.HasTargetTemperatureHigh && c.TwoPointTarget {
		c.state.TargetTemperatureHigh, changed = cmd.TargetTemperatureHigh, true
	}
	if cmd.HasFanMode {
		c.state.FanMode, changed = cmd.FanMode, true
	}
	if cmd.HasCustomFanMode {
		c.state.CustomFanMode, changed = cmd.CustomFanMode, true
	}
	if cmd.HasSwingMode {
		c.state.SwingMode, changed = cmd.SwingMode, true
	}
	if cmd.HasPreset {
		c.state.Preset, changed = cmd.Preset, true
	}
	if cmd.HasCustomPreset {
		c.state.CustomPreset, changed = cmd.CustomPreset, true
	}
	if cmd.HasTargetHumidity && c.SupportsTargetHumidity {
		c.state.TargetHumidity, changed = cmd.TargetHumidity, true
	}
	if changed {
		c.publish(KindStateChange, Event{Key: c.Key(), Message: c.Snapshot()})
	}
}

func (c *Climate) AddRoutes(r Router) {
	prefix := "/climate/" + c.ObjectID()
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, c.StateJSON())
	})
	set := func(apply func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			cmd := &aioesphomeapi.ClimateCommandRequest{Key: c.Key()}
			if apply(cmd, req) {
				c.applyCommand(cmd)
			}
			writeJSON(w, c.StateJSON())
		}
	}
	r.Post(prefix+"/set_mode", set(func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool {
		v := req.URL.Query().Get("mode")
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		cmd.HasMode, cmd.Mode = true, int32(n)
		return true
	}))
	r.Post(prefix+"/set_target_temperature", set(func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool {
		v := req.URL.Query().Get("target_temperature")
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return false
		}
		if c.TwoPointTarget {
			return false
		}
		cmd.HasTargetTemperature, cmd.TargetTemperature = true, float32(f)
		return true
	}))
	r.Post(prefix+"/set_fan_mode", set(func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool {
		n, err := strconv.Atoi(req.URL.Query().Get("fan_mode"))
		if err != nil {
			return false
		}
		cmd.HasFanMode, cmd.FanMode = true, int32(n)
		return true
	}))
	r.Post(prefix+"/set_swing_mode", set(func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool {
		n, err := strconv.Atoi(req.URL.Query().Get("swing_mode"))
		if err != nil {
			return false
		}
		cmd.HasSwingMode, cmd.SwingMode = true, int32(n)
		return true
	}))
	r.Post(prefix+"/set_preset", set(func(cmd *aioesphomeapi.ClimateCommandRequest, req *http.Request) bool {
		n, err := strconv.Atoi(req.URL.Query().Get("preset"))
		if err != nil {
			return false
		}
		cmd.HasPreset, cmd.Preset = true, int32(n)
		return true
	}))
}
