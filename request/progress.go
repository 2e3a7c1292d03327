// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"time"

	"github.com/gogama/rqx/failure"
)

// A Progress summarizes the attempts made so far to settle one logical
// query, which may take several executions of the same spec. Retry and
// timeout policies make their decisions from a Progress.
type Progress struct {
	// Spec is the spec being executed. It is never nil.
	Spec *Spec

	// Attempt is the zero-based index of the most recent attempt.
	Attempt int

	// Start is the start time of the first attempt.
	Start time.Time

	// Err is the failure of the most recent attempt, or nil if no
	// attempt has been made yet.
	Err *failure.Record

	// AttemptTimeouts is the number of attempts which failed with a
	// Timeout failure.
	AttemptTimeouts int
}

// Duration returns the time elapsed since the first attempt started.
func (p *Progress) Duration() time.Duration {
	if p.Start.IsZero() {
		return 0
	}

	return time.Since(p.Start)
}

// StatusCode returns the HTTP status code received by the most recent
// attempt before it failed. If the attempt received no status, zero is
// returned.
func (p *Progress) StatusCode() int {
	if p.Err == nil || p.Err.HTTPCode == failure.NoHTTPCode {
		return 0
	}

	return p.Err.HTTPCode
}

// Timeout indicates whether the most recent attempt failed with a
// Timeout failure.
func (p *Progress) Timeout() bool {
	return p.Err != nil && p.Err.Kind == failure.Timeout
}

// Record notes the failure of the attempt just made, which may be nil.
func (p *Progress) Record(rec *failure.Record) {
	p.Err = rec
	if p.Timeout() {
		p.AttemptTimeouts++
	}
}
