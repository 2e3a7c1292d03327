// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package predicate

import (
	"fmt"
)

// AnyCode is the descriptor HTTP code which matches every status code.
const AnyCode = -1

// A Func reports whether a decoded body has the expected shape.
//
// The body is whatever the decoder produced: for JSON bodies a nil,
// bool, float64, string, []interface{}, or map[string]interface{}.
// A Func must not modify the body.
type Func func(body interface{}) bool

// A Descriptor is a named expectation about a response.
type Descriptor struct {
	// ID names the descriptor. It is reported back when the descriptor
	// matches, and must be unique and non-empty within its list.
	ID string
	// HTTPCode is the status code the response must have, or AnyCode.
	HTTPCode int
	// Predicate checks the body.
	Predicate Func
}

// Match reports whether the descriptor accepts the body received with
// the given status code.
func (d Descriptor) Match(body interface{}, httpCode int) bool {
	if d.Predicate == nil {
		return false
	}
	return d.Predicate(body) && (d.HTTPCode == AnyCode || d.HTTPCode == httpCode)
}

// A List is an ordered sequence of descriptors.
type List []Descriptor

// Match returns the id of the first descriptor in l which accepts the
// body received with the given status code, scanning left to right.
// It returns the empty string if no descriptor matches.
func (l List) Match(body interface{}, httpCode int) string {
	for _, d := range l {
		if d.Match(body, httpCode) {
			return d.ID
		}
	}
	return ""
}

// Validate checks that every descriptor in l has a non-empty id unique
// within l, and a non-nil Func.
func (l List) Validate() error {
	seen := make(map[string]bool, len(l))
	for i, d := range l {
		if d.ID == "" {
			return fmt.Errorf("rqx/predicate: descriptor %d has empty id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("rqx/predicate: duplicate descriptor id %q", d.ID)
		}
		if d.Predicate == nil {
			return fmt.Errorf("rqx/predicate: descriptor %q has nil predicate", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
