// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/predicate"
	"github.com/gogama/rqx/transient"
	"github.com/google/uuid"
)

// An Execution represents the state of a single Spec execution.
//
// When a spec execution is requested, an Execution is created for it.
// The Execution is updated as the execution progresses (for example
// when the resolved URL is known, or when the HTTP response becomes
// available) and is handed to event handlers along the way.
//
// Event handlers may attach their own data with SetValue. Apart from
// adjusting the http.Request in BeforeAttempt, they should not write
// the exported fields.
type Execution struct {
	// ID uniquely identifies the execution. It is assigned when the
	// execution is created.
	ID string

	// Spec specifies the request being executed. It is never nil.
	Spec *Spec

	// Attempt is the zero-based number of this execution among the
	// executions made for the same logical query. It is set by the
	// caller of the engine and is zero unless a caller retries.
	Attempt int

	// Start is the start time of the execution. It is assigned when
	// the execution starts and remains constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// URL is the resolved URL, after the test flavor was applied. It is
	// nil until the spec URL has been parsed, and stays nil if parsing
	// fails.
	URL *url.URL

	// Request is the HTTP request sent to the transport. It is nil if
	// the execution stopped before the transport call.
	Request *http.Request

	// Response is the HTTP response received from the transport. It is
	// nil unless the transport call succeeded.
	Response *http.Response

	// Body is the complete response body. It is nil unless the body was
	// read successfully.
	Body []byte

	// Data is the decoded response body. It is only meaningful once
	// Result has been set.
	Data interface{}

	// Result is the classification of the decoded body. Its Status is
	// empty until the body has been classified.
	Result predicate.Result

	// Err is the error ending the execution, if any. Once set it is
	// always a *failure.Record.
	Err error

	values map[interface{}]interface{}
}

// NewExecution returns a new execution of s with a fresh ID.
func NewExecution(s *Spec) *Execution {
	return &Execution{
		ID:   uuid.NewString(),
		Spec: s,
	}
}

// StatusCode returns the received status code, or 0 before a response
// was received.
func (e *Execution) StatusCode() int {
	if e.Response != nil {
		return e.Response.StatusCode
	}
	return 0
}

// Header returns the received response header. It is nil, and thus
// still safe to read, before a response was received.
func (e *Execution) Header() http.Header {
	if e.Response != nil {
		return e.Response.Header
	}
	return nil
}

// ResolvedURL returns the resolved URL as a string, or the spec URL if
// the URL has not been resolved.
func (e *Execution) ResolvedURL() string {
	if e.URL == nil {
		return e.Spec.URL
	}
	return e.URL.String()
}

// Duration returns End minus Start once the execution has ended, the
// time elapsed since Start while it runs, and zero before it starts.
func (e *Execution) Duration() time.Duration {
	switch {
	case !e.Started():
		return 0
	case e.Ended():
		return e.End.Sub(e.Start)
	default:
		return time.Since(e.Start)
	}
}

// Started reports whether Start is set.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether End is set.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether Err shows the transport call or body read was
// aborted through its context. A timeout raised inside the network
// stack, such as a dial timeout, is not an abort.
func (e *Execution) Timeout() bool {
	if rec, ok := failure.As(e.Err); ok {
		return rec.Kind == failure.Timeout
	}
	return transient.Categorize(e.Err).Aborted()
}

// Classified reports whether the response body has been classified.
func (e *Execution) Classified() bool {
	return e.Result.Status != ""
}

// SetValue stores value under key for later handlers. Keys must be
// comparable, and handlers should use their own unexported key types
// so they cannot collide.
func (e *Execution) SetValue(key, value interface{}) {
	if key == nil {
		panic("rqx/request: nil key")
	}
	if e.values == nil {
		e.values = make(map[interface{}]interface{})
	}
	e.values[key] = value
}

// Value returns the value stored under key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	return e.values[key]
}
