// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/rqx/request"
)

// A Policy chooses the timeout of each attempt to settle a query: the
// first execution of the spec and every retry after it.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next attempt given the
	// progress so far. Zero means no timeout.
	Timeout(p *request.Progress) time.Duration
}

// FromSpec gives every attempt the spec's own Timeout.
var FromSpec Policy = fromSpec{}

// DefaultPolicy is FromSpec.
var DefaultPolicy = FromSpec

// Infinite never times out, whatever the spec says.
var Infinite Policy = Fixed(0)

// Fixed returns a policy giving every attempt the timeout d, overriding
// the spec.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Timeout(*request.Progress) time.Duration {
	return time.Duration(f)
}

// Adaptive returns a policy which lengthens the timeout after attempts
// time out.
//
// The first attempt, and any attempt following one which did not time
// out, gets usual. An attempt following the n-th timeout gets
// after[n-1], or the last element of after once n exceeds its length.
// For example
//
//	Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// tries quickly first, allows 1s after the first timeout, and 10s after
// every later one. This cures one-off slow responses by retrying fast
// without piling short-timeout retries onto a backend that is slow for
// a while.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	return &adaptive{usual: usual, after: append([]time.Duration(nil), after...)}
}

type adaptive struct {
	usual time.Duration
	after []time.Duration
}

func (a *adaptive) Timeout(p *request.Progress) time.Duration {
	if !p.Timeout() || len(a.after) == 0 {
		return a.usual
	}
	n := p.AttemptTimeouts
	if n > len(a.after) {
		n = len(a.after)
	}
	if n < 1 {
		n = 1
	}
	return a.after[n-1]
}

type fromSpec struct{}

func (fromSpec) Timeout(p *request.Progress) time.Duration {
	if p.Spec == nil {
		return 0
	}
	return p.Spec.Timeout
}
