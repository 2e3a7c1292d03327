// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import "fmt"

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in an Engine to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution starts.
	//
	// When Engine fires BeforeExecutionStart, the execution is non-nil
	// but the only fields that have been set are the ID, the spec, and
	// the attempt number.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs immediately before
	// the transport is called.
	//
	// When Engine fires BeforeAttempt, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeAttempt
	// handlers have finished. Handlers may modify the request, but
	// should clone its URL before changing it, as the URL is shared with
	// the execution.
	//
	// BeforeAttempt never fires if the execution ends before the
	// transport call, for example because the URL is invalid or a
	// failure was forced.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after the
	// transport returned an HTTP response but before the response body
	// is read and decoded.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after the
	// transport call, or the body read, was aborted through the
	// cancellation token.
	//
	// When Engine fires AfterAttemptTimeout, the execution's error field
	// is set to the timeout failure record.
	AfterAttemptTimeout
	// AfterClassify identifies the event that occurs after the response
	// body was decoded and classified.
	//
	// When Engine fires AfterClassify, the execution's data and result
	// fields are set, and its error field is nil.
	AfterClassify
	// AfterExecutionEnd identifies the event that occurs after the
	// execution ends, successfully or not.
	//
	// When Engine fires AfterExecutionEnd, exactly one of the
	// execution's result status and error fields is set, and its end
	// time is set.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterClassify",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in an
// execution by Engine, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterClassify,
		AfterExecutionEnd,
	}
}

func (evt Event) valid() bool {
	return evt >= 0 && evt < eventSentinel
}

// Name returns the name of the event.
func (evt Event) Name() string {
	if !evt.valid() {
		return fmt.Sprintf("Event(%d)", int(evt))
	}
	return eventNames[evt]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
