// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"errors"
	"testing"
)

func newTestDevice() *Device {
	return New(Info{Name: "kitchen", MAC: "AA:BB:CC:DD:EE:FF"})
}

func TestAddEntityAssignsDenseKeys(t *testing.T) {
	d := newTestDevice()
	a := NewBinarySensor("Door", "", "", "door", "")
	b := NewSensor("Temp", "", "", "", "C", 1, "temperature")
	if err := d.AddEntity(a); err != nil {
		t.Fatalf("AddEntity(a): %v", err)
	}
	if err := d.AddEntity(b); err != nil {
		t.Fatalf("AddEntity(b): %v", err)
	}
	if a.Key() != 1 || b.Key() != 2 {
		t.Fatalf("keys = %d, %d, want 1, 2", a.Key(), b.Key())
	}
}

func TestAddEntityRejectsDuplicateObjectID(t *testing.T) {
	d := newTestDevice()
	a := NewBinarySensor("Door", "door", "", "door", "")
	b := NewBinarySensor("Door again", "door", "", "door", "")
	if err := d.AddEntity(a); err != nil {
		t.Fatalf("AddEntity(a): %v", err)
	}
	err := d.AddEntity(b)
	if !errors.Is(err, DuplicateObjectID) {
		t.Fatalf("AddEntity(b) = %v, want DuplicateObjectID", err)
	}
}

func TestObjectIDDerivation(t *testing.T) {
	b := NewBinarySensor("Front Door Sensor!", "", "", "", "")
	if got, want := b.ObjectID(), "front_door_sensor"; got != want {
		t.Fatalf("ObjectID() = %q, want %q", got, want)
	}
}

func TestUniqueIDDerivedOncePerDevice(t *testing.T) {
	d := newTestDevice()
	b := NewBinarySensor("Door", "door", "", "", "")
	if err := d.AddEntity(b); err != nil {
		t.Fatal(err)
	}
	if b.UniqueID() == "" {
		t.Fatal("UniqueID() is empty after registration")
	}
	if len(b.UniqueID()) != 16 {
		t.Fatalf("UniqueID() length = %d, want 16", len(b.UniqueID()))
	}
}

// fakeSubscriber records every delivery it receives, for testing publish
// delivery and skip-self semantics.
type fakeSubscriber struct {
	Base
	got []Event
}

func newFakeSubscriber(name string) *fakeSubscriber {
	return &fakeSubscriber{Base: NewBase(name, "fake", "", "")}
}

func (f *fakeSubscriber) Describe() interface{}           { return nil }
func (f *fakeSubscriber) Snapshot() interface{}           { return nil }
func (f *fakeSubscriber) StateJSON() string               { return "" }
func (f *fakeSubscriber) CanHandle(EventKind, Event) bool { return true }
func (f *fakeSubscriber) Handle(kind EventKind, evt Event) { f.got = append(f.got, evt) }
func (f *fakeSubscriber) AddRoutes(Router)                {}

// stateChangeWatcher only reports interest in state_change events, used by
// tests that need to count exactly the state_change deliveries a command
// produces without also picking up the originating client_request.
type stateChangeWatcher struct {
	Base
	got []Event
}

func newStateChangeWatcher(name string) *stateChangeWatcher {
	return &stateChangeWatcher{Base: NewBase(name, "fake", "", "")}
}

func (w *stateChangeWatcher) Describe() interface{} { return nil }
func (w *stateChangeWatcher) Snapshot() interface{} { return nil }
func (w *stateChangeWatcher) StateJSON() string     { return "" }
func (w *stateChangeWatcher) CanHandle(kind EventKind, evt Event) bool {
	return kind == KindStateChange
}
func (w *stateChangeWatcher) Handle(kind EventKind, evt Event) { w.got = append(w.got, evt) }
func (w *stateChangeWatcher) AddRoutes(Router)                 {}

func TestPublishSkipsPublisher(t *testing.T) {
	d := newTestDevice()
	a := newFakeSubscriber("a")
	b := newFakeSubscriber("b")
	c := newFakeSubscriber("c")
	for _, e := range []*fakeSubscriber{a, b, c} {
		if err := d.AddEntity(e); err != nil {
			t.Fatal(err)
		}
	}
	d.Publish(b, KindStateChange, Event{Key: 42})

	if len(b.got) != 0 {
		t.Fatalf("publisher b received its own event: %v", b.got)
	}
	if len(a.got) != 1 || len(c.got) != 1 {
		t.Fatalf("a.got=%d c.got=%d, want 1 each", len(a.got), len(c.got))
	}
}

func TestPublishRecoversFromSubscriberPanic(t *testing.T) {
	d := newTestDevice()
	a := newFakeSubscriber("a")
	panicky := &panickingSubscriber{Base: NewBase("p", "fake", "", "")}
	b := newFakeSubscriber("b")
	for _, e := range []Entity{a, panicky, b} {
		if err := d.AddEntity(e); err != nil {
			t.Fatal(err)
		}
	}
	d.Publish(nil, KindStateChange, Event{})
	if len(b.got) != 1 {
		t.Fatalf("subscriber after the panicking one got %d events, want 1", len(b.got))
	}
}

type panickingSubscriber struct {
	Base
}

func (p *panickingSubscriber) Describe() interface{}          { return nil }
func (p *panickingSubscriber) Snapshot() interface{}          { return nil }
func (p *panickingSubscriber) StateJSON() string              { return "" }
func (p *panickingSubscriber) CanHandle(EventKind, Event) bool { return true }
func (p *panickingSubscriber) Handle(EventKind, Event)         { panic("boom") }
func (p *panickingSubscriber) AddRoutes(Router)                {}
