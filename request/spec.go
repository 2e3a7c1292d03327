// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"github.com/gogama/rqx/flavor"
	"github.com/gogama/rqx/predicate"
	"golang.org/x/net/http/httpguts"
)

var (
	template, _    = http.NewRequest("GET", "", nil)
	errNotAbsolute = errors.New("URL is not absolute")
)

// A Spec describes one request to execute and how to classify its
// response.
type Spec struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL is the URL to request, exactly as supplied by the caller.
	URL string

	// Header contains the request header fields to be sent.
	Header http.Header

	// Body is the pre-buffered request body. It is only sent if it is
	// non-empty and the method's body semantics are not No.
	Body []byte

	// PredicatesSuccess lists, in priority order, the expected
	// successful responses.
	PredicatesSuccess predicate.List

	// PredicatesError lists, in priority order, the expected error
	// responses. It is ignored under predicate.Single.
	PredicatesError predicate.List

	// Mode selects how the predicate lists are used.
	Mode predicate.Mode

	// InitialDataHTTPCode is the status code used when classifying
	// placeholder initial data.
	InitialDataHTTPCode int

	// TestFlavor selects a fault injection scenario.
	TestFlavor flavor.Flavor

	// Pause is an artificial delay before any other work. It does not
	// count against Timeout.
	Pause time.Duration

	// Timeout bounds the transport call, including reading the body.
	// Zero means no timeout.
	Timeout time.Duration
}

// NewSpec returns a new Spec given a method, URL, and optional body.
//
// Parameter body may be nil (empty body), a string, []byte, io.Reader,
// io.ReadCloser, or any other value, which is encoded as JSON. When
// the body is JSON-encoded, the Content-Type header is set to
// application/json.
//
// The URL is not parsed. InitialDataHTTPCode is set to
// predicate.AnyCode.
func NewSpec(method, url string, body interface{}) (*Spec, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("rqx/request: invalid method %q", method)
	}
	b, encoded, err := bodyBytes(body)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	if encoded && len(b) > 0 {
		h.Set("Content-Type", "application/json")
	}
	return &Spec{
		Method:              strings.ToUpper(method),
		URL:                 url,
		Header:              h,
		Body:                b,
		InitialDataHTTPCode: predicate.AnyCode,
	}, nil
}

// Validate checks the method and the predicate lists.
func (s *Spec) Validate() error {
	if !validMethod(s.Method) {
		return fmt.Errorf("rqx/request: invalid method %q", s.Method)
	}
	if err := s.PredicatesSuccess.Validate(); err != nil {
		return err
	}
	return s.PredicatesError.Validate()
}

// ResolveURL parses the spec URL and applies the test flavor to it.
func (s *Spec) ResolveURL() (*urlpkg.URL, error) {
	u, err := urlpkg.Parse(s.URL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &urlpkg.Error{Op: "parse", URL: s.URL, Err: errNotAbsolute}
	}
	u.Host = removeEmptyPort(u.Host)
	return flavor.Apply(u, s.TestFlavor), nil
}

// MethodOrDefault returns the spec method, or GET if it is empty.
func (s *Spec) MethodOrDefault() string {
	if s.Method == "" {
		return "GET"
	}
	return s.Method
}

// WithTimeout returns a shallow copy of s with its timeout changed to d.
func (s *Spec) WithTimeout(d time.Duration) *Spec {
	s2 := new(Spec)
	*s2 = *s
	s2.Timeout = d
	return s2
}

// WithFlavor returns a shallow copy of s with its test flavor changed
// to f.
func (s *Spec) WithFlavor(f flavor.Flavor) *Spec {
	s2 := new(Spec)
	*s2 = *s
	s2.TestFlavor = f
	return s2
}

// SendsBody reports whether the spec body is attached to the request.
func (s *Spec) SendsBody() bool {
	return len(s.Body) > 0 && BodySemanticsOf(s.MethodOrDefault()) != No
}

// ToRequest creates the HTTP request for the spec, sent to u. The
// context of the new request is set to ctx, which may not be nil.
func (s *Spec) ToRequest(ctx context.Context, u *urlpkg.URL) *http.Request {
	r := template.WithContext(ctx)
	r.Method = s.MethodOrDefault()
	r.URL = u
	r.Host = u.Host
	r.Header = s.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if s.SendsBody() {
		body := s.Body
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	return r
}

func validMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>

	   The empty string is always interpreted as "GET".
	*/
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
