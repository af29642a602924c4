// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

// Listener is an internal entity: it has no wire representation
// (Describe/Snapshot/StateJSON all report nothing) and exists purely to
// mirror one entity's scalar state onto another whenever the watched
// entity changes. Unlike every other domain, Listener resolves its watched
// entity dynamically by object_id on every event rather than caching it,
// so it tolerates the watched entity being registered after the listener.
type Listener struct {
	Base
	watchedObjectID string
	target          Entity
}

// NewListener builds a listener that mirrors watchedObjectID's state onto
// target whenever watchedObjectID changes.
func NewListener(name, objectID, uniqueID, watchedObjectID string, target Entity) *Listener {
	return &Listener{
		Base:            NewBase(name, DomainListener, objectID, uniqueID),
		watchedObjectID: watchedObjectID,
		target:          target,
	}
}

// CanHandle returns true iff kind isn't log and the event's key matches the
// watched entity's key, per the spec's listener contract.
func (l *Listener) CanHandle(kind EventKind, evt Event) bool {
	if kind == KindLog {
		return false
	}
	watched, ok := l.lookupWatched()
	return ok && evt.Key == watched.Key()
}

// Handle mirrors the watched entity's current scalar state onto the
// target. It re-reads the watched entity's state rather than trusting
// evt.Message, so repeated deliveries for the same underlying change are
// idempotent (S3's client_request/state_change double-delivery).
func (l *Listener) Handle(_ EventKind, _ Event) {
	watched, ok := l.lookupWatched()
	if !ok || l.target == nil {
		return
	}
	switch src := watched.(type) {
	case interface{ State() (bool, bool) }:
		if v, has := src.State(); has {
			if dst, ok := l.target.(interface{ SetState(bool) }); ok {
				dst.SetState(v)
			}
		}
	case interface{ State() (float32, bool) }:
		if v, has := src.State(); has {
			if dst, ok := l.target.(interface{ SetState(float32) }); ok {
				dst.SetState(v)
			}
		}
	}
}

func (l *Listener) lookupWatched() (Entity, bool) {
	if l.dev == nil {
		return nil, false
	}
	return l.dev.GetByObjectID(l.watchedObjectID)
}

func (l *Listener) Describe() interface{} { return nil }
func (l *Listener) Snapshot() interface{} { return nil }
func (l *Listener) StateJSON() string     { return "" }
func (l *Listener) AddRoutes(Router)      {}
