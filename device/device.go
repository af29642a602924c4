// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// DuplicateObjectID is returned by AddEntity when an entity with the same
// object id is already registered.
var DuplicateObjectID = errors.New("device: duplicate object_id")

// Info is the static identification the device reports over the native API
// and mDNS.
type Info struct {
	Name             string
	MAC              string
	Model            string
	Manufacturer     string
	ProjectName      string
	ProjectVersion   string
	EsphomeVersion   string
	CompilationTime  string
	Password         string
	HasDeepSleep     bool
}

// Device is the pub/sub bus that owns every entity. It is the sole mutable
// shared state of the simulator: entities hold only a non-owning
// back-reference to it (see DESIGN.md, "back-references from entity to
// device").
type Device struct {
	Info Info

	mac  string
	name string

	mu         sync.RWMutex
	entities   []Entity
	byObjectID map[string]Entity
	byKey      map[uint32]Entity

	log *logrus.Logger
}

// New creates an empty device ready to accept entities via AddEntity.
func New(info Info) *Device {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true})
	return &Device{
		Info:       info,
		mac:        info.MAC,
		name:       info.Name,
		byObjectID: map[string]Entity{},
		byKey:      map[uint32]Entity{},
		log:        l,
	}
}

// AddEntity registers e on the bus, assigning it a dense monotonic key
// (len(entities)+1, per Invariant 2) and deriving its unique_id if one
// wasn't supplied explicitly. Returns DuplicateObjectID if the object_id
// collides with an already-registered entity.
func (d *Device) AddEntity(e Entity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byObjectID[e.ObjectID()]; exists {
		return fmt.Errorf("%w: %q", DuplicateObjectID, e.ObjectID())
	}
	e.setDevice(d)
	key := uint32(len(d.entities) + 1)
	e.setKey(key)
	d.entities = append(d.entities, e)
	d.byObjectID[e.ObjectID()] = e
	d.byKey[key] = e
	return nil
}

// GetByObjectID performs an O(1) lookup by object_id.
func (d *Device) GetByObjectID(id string) (Entity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byObjectID[id]
	return e, ok
}

// GetByKey performs an O(1) lookup by key.
func (d *Device) GetByKey(k uint32) (Entity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byKey[k]
	return e, ok
}

// Entities returns a snapshot of all registered entities in insertion
// order. The returned slice is owned by the caller.
func (d *Device) Entities() []Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// Publish delivers evt to every entity except publisher, in insertion
// order, skipping entities whose CanHandle returns false. A panic in one
// subscriber's Handle is recovered, logged, and does not abort the
// remaining deliveries (mirrors the spec's "failures in one subscriber do
// not abort the iteration").
func (d *Device) Publish(publisher Entity, kind EventKind, evt Event) {
	for _, e := range d.Entities() {
		if e == publisher {
			continue
		}
		if !e.CanHandle(kind, evt) {
			continue
		}
		d.deliver(e, kind, evt)
	}
}

func (d *Device) deliver(e Entity, kind EventKind, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("entity", e.ObjectID()).Errorf("panic handling %s event: %v", kind, r)
		}
	}()
	e.Handle(kind, evt)
}

// Log levels, matching the spec's NONE..VERY_VERBOSE scale.
const (
	LogNone = iota
	LogError
	LogWarn
	LogInfo
	LogConfig
	LogDebug
	LogVerbose
	LogVeryVerbose
)

var levelTag = map[int]string{
	LogNone:        "N",
	LogError:       "E",
	LogWarn:        "W",
	LogInfo:        "I",
	LogConfig:      "C",
	LogDebug:       "D",
	LogVerbose:     "V",
	LogVeryVerbose: "VV",
}

var levelColor = map[int]*color.Color{
	LogError:       color.New(color.FgRed),
	LogWarn:        color.New(color.FgYellow),
	LogInfo:        color.New(color.FgGreen),
	LogConfig:      color.New(color.FgCyan),
	LogDebug:       color.New(color.FgBlue),
	LogVerbose:     color.New(color.FgMagenta),
	LogVeryVerbose: color.New(color.FgWhite),
}

// Logf formats a log line in the spec's ANSI-colored scheme
// ("{color}[{letter}][{tag}]: {message}{reset}"), publishes it on
// the bus as a KindLog event, and mirrors it to the structured logger for
// operators watching the process's own stderr.
func (d *Device) Logf(level int, tag, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c, ok := levelColor[level]
	line := fmt.Sprintf("[%s][%s]: %s", levelTag[level], tag, msg)
	if ok {
		line = c.Sprint(line)
	}
	d.Publish(nil, KindLog, Event{Message: [2]interface{}{level, line}})

	entry := d.log.WithField("tag", tag)
	switch {
	case level == LogError:
		entry.Error(msg)
	case level == LogWarn:
		entry.Warn(msg)
	case level >= LogDebug:
		entry.Debug(msg)
	default:
		entry.Info(msg)
	}
}
