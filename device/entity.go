// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package device implements the simulated ESPHome device: the entity model
// and the publish/subscribe bus that wires entities together and to the
// native API and HTTP servers.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"regexp"
	"strings"
)

// Domain identifies an entity's ESPHome component type.
type Domain string

// Domains this device understands.
const (
	DomainBinarySensor Domain = "binary_sensor"
	DomainSensor       Domain = "sensor"
	DomainSwitch       Domain = "switch"
	DomainNumber       Domain = "number"
	DomainLight        Domain = "light"
	DomainClimate      Domain = "climate"
	DomainListener     Domain = "listener"
)

// EventKind distinguishes the two kinds of events the bus carries.
type EventKind string

const (
	// KindStateChange is published whenever an entity's observable state
	// changes.
	KindStateChange EventKind = "state_change"
	// KindLog is published for every log() call, piggy-backed on the same
	// bus as state changes so a single subscriber model serves both.
	KindLog EventKind = "log"
	// KindClientRequest is published for every decoded client command that
	// isn't handled by the server itself (Hello/Connect/ListEntities/...).
	// Event.Key carries the command's target entity key and Event.Message
	// the decoded request, so CanHandle implementations can filter on key
	// without inspecting the message.
	KindClientRequest EventKind = "client_request"
)

// Event is what publish() hands to every candidate subscriber.
type Event struct {
	Key     uint32
	Message interface{}
}

// Entity is implemented by every domain type registered on a Device.
type Entity interface {
	ObjectID() string
	UniqueID() string
	Key() uint32
	Domain() Domain
	Name() string

	setKey(k uint32)
	setDevice(d *Device)

	// Describe returns the domain-specific ListEntities*Response, or nil if
	// the entity is internal (e.g. a listener).
	Describe() interface{}
	// Snapshot returns the current state as a protocol message, or nil.
	Snapshot() interface{}
	// StateJSON returns a JSON-serialized public view for the HTTP/SSE
	// layer, or "" if the entity has no externally visible state.
	StateJSON() string
	// CanHandle declares interest in an event published by another entity.
	CanHandle(kind EventKind, evt Event) bool
	// Handle reacts to an event this entity declared interest in. Must be
	// idempotent for duplicate deliveries.
	Handle(kind EventKind, evt Event)
	// AddRoutes registers the entity's HTTP endpoints, if any.
	AddRoutes(mux Router)
}

// Router is the subset of chi.Router that entities need to register routes,
// kept narrow so device does not import httpapi (which imports device).
type Router interface {
	Get(pattern string, h http.HandlerFunc)
	Post(pattern string, h http.HandlerFunc)
}

// Base is embedded by every concrete entity; it implements the bookkeeping
// common to all domains (object/unique id derivation, key, back-reference)
// so domain types only need to implement Describe/Snapshot/StateJSON/
// CanHandle/Handle/AddRoutes.
type Base struct {
	name     string
	domain   Domain
	objectID string
	uniqueID string
	explicit bool // uniqueID was given explicitly, not derived
	key      uint32
	dev      *Device
}

// NewBase builds the common entity state. If objectID is empty it is
// derived from name by lower-casing, collapsing whitespace runs to a single
// underscore, and then stripping remaining non-word characters. If
// uniqueID is empty it is derived in setDevice, once the owning device (and
// therefore its name/mac) is known.
func NewBase(name string, domain Domain, objectID, uniqueID string) Base {
	if objectID == "" {
		objectID = slugify(name)
	}
	return Base{name: name, domain: domain, objectID: objectID, uniqueID: uniqueID, explicit: uniqueID != ""}
}

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugNonWord    = regexp.MustCompile(`[^a-z0-9_]`)
)

func slugify(name string) string {
	s := strings.ToLower(name)
	s = slugWhitespace.ReplaceAllString(s, "_")
	return slugNonWord.ReplaceAllString(s, "")
}

func (b *Base) ObjectID() string { return b.objectID }
func (b *Base) UniqueID() string { return b.uniqueID }
func (b *Base) Key() uint32      { return b.key }
func (b *Base) Domain() Domain   { return b.domain }
func (b *Base) Name() string     { return b.name }

func (b *Base) setKey(k uint32) { b.key = k }

func (b *Base) setDevice(d *Device) {
	b.dev = d
	if !b.explicit {
		b.uniqueID = deriveUniqueID(d.name, d.mac, b.objectID, string(b.domain))
	}
}

// deriveUniqueID implements the spec's unique_id formula: the first 16 hex
// characters of SHA-256 over device-name || device-mac || object-id ||
// domain. This supersedes the teacher's plain string-concatenation scheme
// (see DESIGN.md).
func deriveUniqueID(deviceName, mac, objectID, domain string) string {
	h := sha256.Sum256([]byte(deviceName + mac + objectID + domain))
	return hex.EncodeToString(h[:])[:16]
}

// publish is a convenience forwarded to the owning device, used by domain
// types after they apply a state change.
func (b *Base) publish(kind EventKind, evt Event) {
	if b.dev != nil {
		self, _ := b.dev.GetByKey(b.key)
		b.dev.Publish(self, kind, evt)
	}
}

// log is a convenience forwarded to the owning device's leveled logger.
func (b *Base) log(level int, format string, args ...interface{}) {
	if b.dev != nil {
		b.dev.Logf(level, b.name, format, args...)
	}
}
