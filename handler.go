// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import (
	"github.com/gogama/rqx/request"
)

// A Handler observes or extends an execution when an event occurs.
//
// Handlers run synchronously on the goroutine executing the spec, in
// the order they were added. A handler which blocks delays the
// execution, and time spent in BeforeReadBody or later handlers counts
// against the spec's timeout.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}

// A HandlerGroup holds one handler chain per event. The zero value is
// an empty group ready to use.
//
// A HandlerGroup must not be changed while an Engine using it is
// executing specs.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. It panics if h is nil or evt
// is not one of the values returned by Events.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("rqx: nil handler")
	}
	if !evt.valid() {
		panic("rqx: unknown event")
	}
	g.chains[evt] = append(g.chains[evt], h)
}

// PushBackFunc appends f to the chain of every event in evts.
func (g *HandlerGroup) PushBackFunc(f func(Event, *request.Execution), evts ...Event) {
	if f == nil {
		panic("rqx: nil handler")
	}
	for _, evt := range evts {
		g.PushBack(evt, HandlerFunc(f))
	}
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	if !evt.valid() {
		return 0
	}
	return len(g.chains[evt])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}
