// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/rqx/request"
)

// A Policy decides, after each failed attempt to settle a query,
// whether to try again and how long to wait first. Implementations must
// be safe for concurrent use by multiple goroutines.
//
// Most policies are assembled with NewPolicy from a Decider and a
// Waiter, or obtained from Count.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy combines DefaultDecider and DefaultWaiter.
var DefaultPolicy Policy = policy{decider: DefaultDecider, waiter: DefaultWaiter}

// Never never retries.
var Never Policy = policy{decider: Times(0), waiter: DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy returns a Policy which asks d whether to retry and w how
// long to wait. It panics if either is nil.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("rqx/retry: nil decider")
	}
	if w == nil {
		panic("rqx/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

// Count returns the policy behind a query's numeric retry option: any
// failure is retried up to n times, waiting as DefaultWaiter does.
// Count(0) is Never, and a negative n panics.
func Count(n int) Policy {
	if n < 0 {
		panic("rqx/retry: negative retry count")
	}
	if n == 0 {
		return Never
	}
	return policy{decider: Times(n), waiter: DefaultWaiter}
}

func (p policy) Decide(pr *request.Progress) bool {
	return p.decider.Decide(pr)
}

func (p policy) Wait(pr *request.Progress) time.Duration {
	return p.waiter.Wait(pr)
}
