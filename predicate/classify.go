// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package predicate

import "fmt"

// A Status is the business classification of a response.
type Status string

const (
	// Success means a success descriptor matched.
	Success Status = "success_expected"
	// ErrorExpected means no success descriptor matched but an error
	// descriptor did, for example a documented 422 response.
	ErrorExpected Status = "error_expected"
	// ErrorUnexpected means no descriptor matched.
	ErrorUnexpected Status = "error_unexpected"
)

// A Mode selects how a request's predicate lists are used.
type Mode int

const (
	// Dual consults the success list, then the error list. Response
	// bodies must decode as JSON. It is the zero value.
	Dual Mode = iota
	// Single consults only the success list. Response bodies which are
	// not JSON are passed to the predicates as a string.
	Single
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Dual:
		return "dual"
	case Single:
		return "single"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "dual":
		*m = Dual
	case "single":
		*m = Single
	default:
		return fmt.Errorf("rqx/predicate: unknown mode %q", string(b))
	}
	return nil
}

// A Result is the output of Classify.
//
// At most one of SuccessMatchedID and ErrorMatchedID is non-empty, and
// Status is ErrorExpected only if ErrorMatchedID is non-empty.
type Result struct {
	SuccessMatchedID string
	ErrorMatchedID   string
	Status           Status
}

// Classify matches the body received with the given status code against
// the success list and then, only if nothing in the success list
// matched, against the error list.
//
// For fixed inputs the result is always the same.
func Classify(body interface{}, success, errs List, httpCode int) Result {
	if id := success.Match(body, httpCode); id != "" {
		return Result{SuccessMatchedID: id, Status: Success}
	}
	if id := errs.Match(body, httpCode); id != "" {
		return Result{ErrorMatchedID: id, Status: ErrorExpected}
	}
	return Result{Status: ErrorUnexpected}
}

// ClassifyMode is Classify under the given mode. Under Single the error
// list is ignored.
func ClassifyMode(m Mode, body interface{}, success, errs List, httpCode int) Result {
	if m == Single {
		errs = nil
	}
	return Classify(body, success, errs, httpCode)
}
