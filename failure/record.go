// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogama/rqx/transient"
)

// NoHTTPCode is the HTTP status code recorded when no real status code
// is known.
const NoHTTPCode = -1

// ForcedMessage is the message of every forced failure.
const ForcedMessage = "is forced error"

// A Kind classifies a failure by where it happened.
type Kind string

const (
	// URLInvalid means the request URL could not be parsed. No request
	// was sent.
	URLInvalid Kind = "url error"
	// BodyDecode means a response was received but its body could not
	// be decoded as structured data.
	BodyDecode Kind = "json error"
	// Transport means the transport failed to produce a response.
	Transport Kind = "fetch error"
	// Timeout means the attempt was aborted through its cancellation
	// token.
	Timeout Kind = "timeout error"
	// Forced means the failure was injected deliberately.
	Forced Kind = "forced error"
)

// Kinds returns every Kind.
func Kinds() []Kind {
	return []Kind{URLInvalid, BodyDecode, Transport, Timeout, Forced}
}

// An Origin identifies the stage of the execution at which a raw error
// was raised. It decides the Kind of the record when the error is not a
// cancellation.
type Origin int

const (
	// FromTransport is the transport call.
	FromTransport Origin = iota
	// FromURL is URL parsing.
	FromURL
	// FromDecode is response body decoding.
	FromDecode
)

// A Record is the terminal failure of one execution.
//
// The JSON encoding of a Record uses the field names message, code,
// name, codeSpc, url, method, and httpCode.
type Record struct {
	// Message is the message of the underlying cause.
	Message string `json:"message"`
	// Code is the transport failure code. For errors from the network
	// it is the transient category name (for example "timeout" or
	// "conn_refused") and it is empty when no category applies.
	Code string `json:"code"`
	// Name is the type name of the innermost cause.
	Name string `json:"name"`
	// Kind is the failure kind.
	Kind Kind `json:"codeSpc"`
	// URL is the URL being requested when the failure happened.
	URL string `json:"url"`
	// Method is the HTTP method of the request.
	Method string `json:"method"`
	// HTTPCode is the status code received before the failure, or
	// NoHTTPCode.
	HTTPCode int `json:"httpCode"`

	cause error
}

// Build converts a raw error into a Record. It never returns nil.
//
// If the error chain carries a cancellation marker (see package
// transient) the kind is Timeout. Otherwise the kind follows from the
// origin: FromURL gives URLInvalid, FromDecode gives BodyDecode, and
// FromTransport gives Transport.
func Build(err error, origin Origin, url, method string, httpCode int) *Record {
	cat := transient.Categorize(err)
	r := &Record{
		Code:     cat.String(),
		Name:     causeName(err),
		URL:      url,
		Method:   method,
		HTTPCode: httpCode,
		cause:    err,
	}
	if err != nil {
		r.Message = err.Error()
	}
	switch {
	case cat.Aborted():
		r.Kind = Timeout
	case origin == FromURL:
		r.Kind = URLInvalid
	case origin == FromDecode:
		r.Kind = BodyDecode
	default:
		r.Kind = Transport
	}
	return r
}

// NewForced returns the record of a deliberately injected failure. It
// never has an HTTP code.
func NewForced(url, method string) *Record {
	return &Record{
		Message:  ForcedMessage,
		Kind:     Forced,
		URL:      url,
		Method:   method,
		HTTPCode: NoHTTPCode,
	}
}

// Error returns a human-readable description of the failure.
func (r *Record) Error() string {
	return fmt.Sprintf("rqx: %s: %s %s: %s", r.Kind, r.Method, r.URL, r.Message)
}

// Unwrap returns the underlying cause, if known. Records recovered
// with Parse have no cause.
func (r *Record) Unwrap() error {
	return r.cause
}

// Timeout reports whether the failure is of kind Timeout.
func (r *Record) Timeout() bool {
	return r.Kind == Timeout
}

// String serializes the record as JSON.
func (r *Record) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		// Every field is a string or an int.
		panic("rqx/failure: " + err.Error())
	}
	return string(b)
}

// Parse recovers a record from its String form.
func Parse(s string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, fmt.Errorf("rqx/failure: invalid record: %w", err)
	}
	if r.Kind == "" {
		return nil, errors.New("rqx/failure: invalid record: missing codeSpc")
	}
	return &r, nil
}

// As returns the Record in err's chain, if any.
func As(err error) (*Record, bool) {
	var r *Record
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

func causeName(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
