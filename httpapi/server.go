// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package httpapi serves the parallel HTTP/SSE surface: a dashboard stub,
// a live "/events" stream, and every entity's own per-domain routes.
package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/maruel/natural"
	"github.com/periphsim/esphome-device/device"
)

// dashboardPage is the opaque dashboard asset; the spec treats its content
// as an external collaborator, so this is a minimal stand-in rather than a
// faithful recreation of the upstream page. The entity list is naturally
// sorted by object id, so e.g. "sensor2" precedes "sensor10".
func dashboardPage(entities []device.Entity) string {
	ids := make(natural.StringSlice, 0, len(entities))
	for _, e := range entities {
		if e.StateJSON() == "" {
			continue
		}
		ids = append(ids, e.ObjectID())
	}
	sort.Sort(ids)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>periphsim</title></head><body><h1>periphsim</h1>")
	b.WriteString(`<p>See <a href="/events">/events</a> for the live state stream.</p><ul>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a href="/%s">%s</a></li>`, id, id)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

// Server is the HTTP/SSE entry point. It registers itself on the device bus
// as an internal entity so it receives state_change/log events the same way
// the native API server does.
type Server struct {
	device.Base

	dev *device.Device
	hub *hub
}

// New builds a server bound to dev. Register it with dev.AddEntity before
// mounting its router, so bus delivery is wired up before requests arrive.
func New(dev *device.Device) *Server {
	return &Server{
		Base: device.NewBase("_web_server", "", "_web_server", "_web_server"),
		dev:  dev,
		hub:  newHub(),
	}
}

// Router builds the chi router serving the dashboard, the SSE stream, and
// every entity's own AddRoutes-registered endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(dashboardPage(s.dev.Entities())))
	})
	r.Get("/events", s.serveEvents)
	for _, e := range s.dev.Entities() {
		e.AddRoutes(r)
	}
	return r
}

func (s *Server) serveEvents(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := s.hub.register()
	defer s.hub.unregister(client)

	for _, e := range s.dev.Entities() {
		if body := e.StateJSON(); body != "" {
			writeSSE(w, "state", body)
		}
	}
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case evt, ok := <-client.ch:
			if !ok {
				return
			}
			writeSSE(w, evt.name, evt.body)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, name, body string) {
	_, _ = w.Write([]byte("event: " + name + "\ndata: " + body + "\n\n"))
}

// Describe/Snapshot/StateJSON: the web server has no wire representation
// of its own.
func (s *Server) Describe() interface{}   { return nil }
func (s *Server) Snapshot() interface{}   { return nil }
func (s *Server) StateJSON() string       { return "" }
func (s *Server) AddRoutes(device.Router) {}

// CanHandle accepts state_change and log events, the two kinds forwarded
// to SSE clients.
func (s *Server) CanHandle(kind device.EventKind, _ device.Event) bool {
	return kind == device.KindStateChange || kind == device.KindLog
}

func (s *Server) Handle(kind device.EventKind, evt device.Event) {
	switch kind {
	case device.KindStateChange:
		e, ok := s.dev.GetByKey(evt.Key)
		if !ok {
			return
		}
		if body := e.StateJSON(); body != "" {
			s.hub.broadcast(sseEvent{name: "state", body: body})
		}
	case device.KindLog:
		pair, ok := evt.Message.([2]interface{})
		if !ok {
			return
		}
		text, _ := pair[1].(string)
		s.hub.broadcast(sseEvent{name: "log", body: text})
	}
}
