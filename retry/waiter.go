// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/rqx/request"
)

// A Waiter chooses how long to wait before retrying a failed attempt.
// It is only consulted after the policy's Decider chose to retry.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(p *request.Progress) time.Duration
}

// WaiterFunc adapts an ordinary function to the Waiter interface.
type WaiterFunc func(p *request.Progress) time.Duration

// Wait calls f(p).
func (f WaiterFunc) Wait(p *request.Progress) time.Duration {
	return f(p)
}

// DefaultWaiter waits 1s after the first failed attempt and doubles the
// wait after each further failure, up to 30s. It never jitters.
var DefaultWaiter = NewExpWaiter(time.Second, 30*time.Second, nil)

// NewFixedWaiter returns a Waiter which always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return WaiterFunc(func(*request.Progress) time.Duration {
		return d
	})
}

// A Jitter maps the exponential ceiling of a wait to the wait actually
// used. It must return a value between zero and ceil and be safe for
// concurrent use.
type Jitter func(ceil time.Duration) time.Duration

// FullJitter returns a Jitter picking a uniformly random wait in
// [0, ceil), using a generator seeded with seed.
func FullJitter(seed int64) Jitter {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(seed))
	return func(ceil time.Duration) time.Duration {
		if ceil <= 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		return time.Duration(r.Int63n(int64(ceil)))
	}
}

// NewExpWaiter returns a Waiter whose ceiling after attempt n is
//
//	min(base * 2**n, max)
//
// If jitter is nil the ceiling is waited in full. Otherwise jitter
// picks the wait from the ceiling, as in the "Full Jitter" approach of
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// NewExpWaiter panics unless 0 < base <= max.
func NewExpWaiter(base, max time.Duration, jitter Jitter) Waiter {
	if base <= 0 {
		panic("rqx/retry: base must be positive")
	}
	if max < base {
		panic("rqx/retry: max must be at least base")
	}
	return &expWaiter{base: base, max: max, jitter: jitter}
}

type expWaiter struct {
	base, max time.Duration
	jitter    Jitter
}

func (w *expWaiter) ceil(attempt int) time.Duration {
	d := w.base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= w.max || d <= 0 {
			return w.max
		}
	}
	return d
}

func (w *expWaiter) Wait(p *request.Progress) time.Duration {
	c := w.ceil(p.Attempt)
	if w.jitter == nil {
		return c
	}
	return w.jitter(c)
}
