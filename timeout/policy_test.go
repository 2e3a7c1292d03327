// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"testing"
	"time"

	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/request"
	"github.com/stretchr/testify/assert"
)

var (
	timedOut = &failure.Record{Kind: failure.Timeout, Code: "timeout", HTTPCode: failure.NoHTTPCode}
	routine  = &failure.Record{Kind: failure.Transport, Message: "just a routine problem", HTTPCode: failure.NoHTTPCode}
)

func TestDefault(t *testing.T) {
	assert.Equal(t, FromSpec, DefaultPolicy)
	spec := &request.Spec{Timeout: 750 * time.Millisecond}
	a := DefaultPolicy.Timeout(&request.Progress{Spec: spec})
	assert.Equal(t, 750*time.Millisecond, a)
	b := DefaultPolicy.Timeout(&request.Progress{Spec: spec, AttemptTimeouts: 3, Err: timedOut})
	assert.Equal(t, 750*time.Millisecond, b)
	c := DefaultPolicy.Timeout(&request.Progress{})
	assert.Equal(t, time.Duration(0), c)
}

func TestInfinite(t *testing.T) {
	a := Infinite.Timeout(&request.Progress{})
	assert.Equal(t, time.Duration(0), a)
	b := Infinite.Timeout(&request.Progress{AttemptTimeouts: 10, Err: timedOut})
	assert.Equal(t, time.Duration(0), b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Hour)
	a := p.Timeout(&request.Progress{})
	assert.Equal(t, 33*time.Hour, a)
	b := p.Timeout(&request.Progress{AttemptTimeouts: 1, Err: timedOut, Attempt: 1})
	assert.Equal(t, 33*time.Hour, b)
	c := p.Timeout(&request.Progress{AttemptTimeouts: 2, Err: timedOut, Attempt: 2})
	assert.Equal(t, 33*time.Hour, c)
}

func TestAdaptive(t *testing.T) {
	p := Adaptive(5*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)
	x := &request.Progress{}
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 0
	x.Record(timedOut)
	assert.Equal(t, 1, x.AttemptTimeouts)
	assert.Equal(t, 10*time.Millisecond, p.Timeout(x))
	x.Attempt = 1
	x.Record(routine)
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 2
	x.Record(timedOut)
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 3
	x.Record(timedOut)
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
}

func TestAdaptiveEdges(t *testing.T) {
	t.Run("no after", func(t *testing.T) {
		p := Adaptive(time.Second)
		x := &request.Progress{}
		x.Record(timedOut)
		assert.Equal(t, time.Second, p.Timeout(x))
	})
	t.Run("after is copied", func(t *testing.T) {
		after := []time.Duration{2 * time.Second}
		p := Adaptive(time.Second, after...)
		after[0] = time.Hour
		x := &request.Progress{}
		x.Record(timedOut)
		assert.Equal(t, 2*time.Second, p.Timeout(x))
	})
}
