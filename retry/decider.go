// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/request"
)

// A Decider decides if a retry should be done after a failed attempt.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, Kinds, and Before,
// and the built-in decider TransientErr; or implement your Decider. Use
// DeciderFunc to convert an ordinary function into a Decider, and to
// compose deciders logically using DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(p *request.Progress) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(p *request.Progress) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 3

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It will allow up to DefaultTimes retries (i.e. up
// to 4 total attempts), and will retry in the case of a transient error
// (TransientErr) or if a response was received with one of the
// following status codes but could not be decoded: 429 (Too Many
// Requests); 502 (Bad Gateway); 503 (Service Unavailable); or 504
// (Gateway Timeout).
var DefaultDecider = Times(DefaultTimes).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr is a decider that indicates a retry if the latest
// failure was caused by a transient network condition, which includes
// timeouts.
//
// TransientErr reads the failure record's code, so it works on records
// recovered with failure.Parse, which have no underlying cause.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current progress.
func (f DeciderFunc) Decide(p *request.Progress) bool {
	return f(p)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(p *request.Progress) bool {
		return f(p) && g(p)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(p *request.Progress) bool {
		return f(p) || g(p)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt index p.Attempt is
// less than n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(p *request.Progress) bool {
		return p.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the first attempt started. The
// returned decider returns true while the duration is less than d, and
// false afterward.
func Before(d time.Duration) DeciderFunc {
	return func(p *request.Progress) bool {
		return p.Duration() < d
	}
}

// StatusCode constructs a retry decider allowing retries based on the
// HTTP status code received by the latest attempt before it failed. If
// the code is contained in the list ss, the decider returns true.
// Otherwise, it returns false.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(p *request.Progress) bool {
		for _, s := range ss2 {
			if p.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

// Kinds constructs a retry decider allowing retries when the latest
// failure has one of the given kinds.
func Kinds(ks ...failure.Kind) DeciderFunc {
	ks2 := make([]failure.Kind, len(ks))
	copy(ks2, ks)
	return func(p *request.Progress) bool {
		if p.Err == nil {
			return false
		}
		for _, k := range ks2 {
			if p.Err.Kind == k {
				return true
			}
		}
		return false
	}
}

func transientErr(p *request.Progress) bool {
	return p.Err != nil && (p.Err.Code != "" || p.Err.Kind == failure.Timeout)
}
