// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import "sync"

// sseQueueDepth bounds each client's pending-event queue per the spec's
// "bounded FIFO per client" discipline; a client too slow to drain it misses
// the new events that arrive while its queue is full, rather than blocking
// the broadcaster.
const sseQueueDepth = 64

type sseEvent struct {
	name string
	body string
}

type sseClient struct {
	ch chan sseEvent
}

// hub fans state/log events out to every connected SSE client. The
// connection set is guarded by a mutex, matching the spec's
// shared-resource discipline for mutation from accept/disconnect.
type hub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
}

func newHub() *hub {
	return &hub{clients: map[*sseClient]struct{}{}}
}

func (h *hub) register() *sseClient {
	c := &sseClient{ch: make(chan sseEvent, sseQueueDepth)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) unregister(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// broadcast delivers evt to every client, dropping it for any client whose
// queue is full instead of blocking the publisher.
func (h *hub) broadcast(evt sseEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.ch <- evt:
		default:
		}
	}
}
