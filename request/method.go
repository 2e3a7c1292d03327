// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "strings"

// BodySemantics says whether a request body has defined meaning for an
// HTTP method.
type BodySemantics int

const (
	// May means a body is allowed but has no generally defined meaning
	// (RFC 9110 for DELETE and OPTIONS), or the method is an extension
	// method whose semantics are unknown.
	May BodySemantics = iota
	// Yes means the method is defined to carry a body.
	Yes
	// No means a body must not be sent.
	No
)

// BodySemanticsOf returns the body semantics of the given method. The
// method is compared case-insensitively.
func BodySemanticsOf(method string) BodySemantics {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return Yes
	case "", "GET", "HEAD", "TRACE", "CONNECT":
		return No
	default:
		return May
	}
}

// String returns "yes", "no", or "may".
func (b BodySemantics) String() string {
	switch b {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "may"
	}
}
