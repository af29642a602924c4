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

// LightState is the light domain's state vector, matching the spec's
// struct {on, brightness, color_mode, color_brightness, r, g, b, white,
// color_temperature, cold_white, warm_white, effect, transition_length,
// flash_length}.
type LightState struct {
	On               bool
	Brightness       float32
	ColorMode        int32
	ColorBrightness  float32
	Red              float32
	Green            float32
	Blue             float32
	White            float32
	ColorTemperature float32
	ColdWhite        float32
	WarmWhite        float32
	Effect           string
	TransitionLength uint32
	FlashLength      uint32
}

// Light is a light entity supporting a set of color modes and a fixed
// effect list.
type Light struct {
	Base
	SupportedColorModes []int32
	Effects              []string
	MinMireds            float32
	MaxMireds            float32

	state    LightState
	hasState bool
}

// NewLight constructs a light entity with the given supported color modes
// (aioesphomeapi.ColorMode* bit values) and effect list.
func NewLight(name, objectID, uniqueID string, colorModes []int32, effects []string) *Light {
	l := &Light{
		Base:                 NewBase(name, DomainLight, objectID, uniqueID),
		SupportedColorModes:  colorModes,
		Effects:              effects,
	}
	if len(colorModes) > 0 {
		l.state.ColorMode = colorModes[0]
	}
	l.state.Brightness = 1
	l.state.ColorBrightness = 1
	l.state.ColorTemperature = 1
	l.state.ColdWhite = 1
	l.state.WarmWhite = 1
	l.state.Red = 1
	l.state.Green = 1
	l.state.Blue = 1
	l.state.White = 1
	if len(effects) > 0 {
		l.state.Effect = effects[0]
	}
	return l
}

// State returns a copy of the current state vector.
func (l *Light) State() LightState { return l.state }

func (l *Light) Describe() interface{} {
	return &aioesphomeapi.ListEntitiesLightResponse{
		ObjectId:            l.ObjectID(),
		Key:                 l.Key(),
		Name:                l.Name(),
		UniqueId:            l.UniqueID(),
		SupportedColorModes: l.SupportedColorModes,
		Effects:             l.Effects,
		MinMireds:           l.MinMireds,
		MaxMireds:           l.MaxMireds,
	}
}

func (l *Light) Snapshot() interface{} {
	s := l.state
	return &aioesphomeapi.LightStateResponse{
		Key:              l.Key(),
		State:            s.On,
		Brightness:       s.Brightness,
		ColorMode:        s.ColorMode,
		ColorBrightness:  s.ColorBrightness,
		Red:              s.Red,
		Green:            s.Green,
		Blue:             s.Blue,
		White:            s.White,
		ColorTemperature: s.ColorTemperature,
		ColdWhite:        s.ColdWhite,
		WarmWhite:        s.WarmWhite,
		Effect:           s.Effect,
	}
}

func (l *Light) StateJSON() string {
	s := l.state
	b, _ := json.Marshal(map[string]interface{}{
		"id":    l.ObjectID(),
		"name":  l.Name(),
		"state": onOff(s.On),
		"brightness": int(s.Brightness * 255),
		"color": map[string]float32{
			"r": s.Red,
			"g": s.Green,
			"b": s.Blue,
		},
		"effects":     l.Effects,
		"effect":      s.Effect,
		"white_value": s.White,
	})
	return string(b)
}

func (l *Light) CanHandle(EventKind, Event) bool { return true }

func (l *Light) Handle(kind EventKind, evt Event) {
	if kind != KindClientRequest {
		return
	}
	cmd, ok := evt.Message.(*aioesphomeapi.LightCommandRequest)
	if !ok || cmd.Key != l.Key() {
		return
	}
	l.applyCommand(cmd)
}

// applyCommand applies only the fields whose has_* guard is set, matching
// the dynamic hasattr(command, "has_x") probing of the Python original
// re-expressed as explicit option fields (see DESIGN.md, "dynamic
// per-domain behavior").
func (l *Light) applyCommand(cmd *aioesphomeapi.LightCommandRequest) {
	changed := false
	set := func(cond bool, dst interface{}, val interface{}) {
		if !cond {
			return
		}
		switch d := dst.(type) {
		case *bool:
			if v := val.(bool); *d != v {
				*d = v
				changed = true
			}
		case *float32:
			if v := val.(float32); *d != v {
				*d = v
				changed = true
			}
		case *int32:
			if v := val.(int32); *d != v {
				*d = v
				changed = true
			}
		case *uint32:
			if v := val.(uint32); *d != v {
				*d = v
				changed = true
			}
		case *string:
			if v := val.(string); *d != v {
				*d = v
				changed = true
			}
		}
	}
	set(cmd.HasState, &l.state.On, cmd.State)
	set(cmd.HasBrightness, &l.state.Brightness, cmd.Brightness)
	set(cmd.HasWhite, &l.state.White, cmd.White)
	set(cmd.HasEffect, &l.state.Effect, cmd.Effect)
	set(cmd.HasColorBrightness, &l.state.ColorBrightness, cmd.ColorBrightness)
	set(cmd.HasColorTemperature, &l.state.ColorTemperature, cmd.ColorTemperature)
	set(cmd.HasColdWhite, &l.state.ColdWhite, cmd.ColdWhite)
	set(cmd.HasWarmWhite, &l.state.WarmWhite, cmd.WarmWhite)
	set(cmd.HasTransitionLength, &l.state.TransitionLength, cmd.TransitionLength)
	set(cmd.HasFlashLength, &l.state.FlashLength, cmd.FlashLength)
	set(cmd.HasColorMode, &l.state.ColorMode, cmd.ColorMode)

	if cmd.HasRgb {
		if l.state.Red != cmd.Red {
			l.state.Red = cmd.Red
			changed = true
		}
		if l.state.Green != cmd.Green {
			l.state.Green = cmd.Green
			changed = true
		}
		if l.state.Blue != cmd.Blue {
			l.state.Blue = cmd.Blue
			changed = true
		}
	}

	if changed {
		l.hasState = true
		l.publish(KindStateChange, Event{Key: l.Key(), Message: l.Snapshot()})
	}
}

// applyQuery translates HTTP turn_on/turn_off query parameters into a
// LightCommandRequest, per the spec's query-translation rules: brightness,
// r, g, b, white_value in 0..255 are divided by 255.0 into floats; effect
// and color_temp pass through; setting any of r/g/b implies has_rgb.
func (l *Light) applyQuery(on bool, q map[string][]string) {
	cmd := &aioesphomeapi.LightCommandRequest{Key: l.Key(), HasState: true, State: on}
	if v, ok := firstOf(q, "effect"); ok {
		cmd.HasEffect, cmd.Effect = true, v
	}
	if v, ok := firstOf(q, "color_temp"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cmd.HasColorTemperature, cmd.ColorTemperature = true, float32(f)
		}
	}
	if v, ok := firstOf(q, "brightness"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cmd.HasBrightness, cmd.Brightness = true, float32(f)/255.0
		}
	}
	if v, ok := firstOf(q, "white_value"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cmd.HasWhite, cmd.White = true, float32(f)/255.0
		}
	}
	var r, g, b float32 = l.state.Red, l.state.Green, l.state.Blue
	gotColor := false
	if v, ok := firstOf(q, "r"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			r, gotColor = float32(f)/255.0, true
		}
	}
	if v, ok := firstOf(q, "g"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			g, gotColor = float32(f)/255.0, true
		}
	}
	if v, ok := firstOf(q, "b"); ok {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			b, gotColor = float32(f)/255.0, true
		}
	}
	if gotColor {
		cmd.HasRgb, cmd.Red, cmd.Green, cmd.Blue = true, r, g, b
	}
	l.applyCommand(cmd)
}

func firstOf(q map[string][]string, key string) (string, bool) {
	v, ok := q[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (l *Light) AddRoutes(r Router) {
	prefix := "/light/" + l.ObjectID()
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, l.StateJSON())
	})
	r.Post(prefix+"/turn_on", func(w http.ResponseWriter, req *http.Request) {
		l.applyQuery(true, map[string][]string(req.URL.Query()))
		writeJSON(w, l.StateJSON())
	})
	r.Post(prefix+"/turn_off", func(w http.ResponseWriter, req *http.Request) {
		l.applyQuery(false, map[string][]string(req.URL.Query()))
		writeJSON(w, l.StateJSON())
	})
}
