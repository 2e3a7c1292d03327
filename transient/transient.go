// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// A Category is the category of a particular error, as reported by
// function Categorize.
//
// The categories Timeout and Canceled both mean the attempt was aborted
// through its cancellation token. All other categories describe a
// failure that happened without the caller asking for it.
type Category int

const (
	// Not indicates an error in no other category, or a nil error.
	Not Category = iota
	// Timeout indicates the attempt was aborted because its context
	// deadline passed, that is the error chain contains
	// context.DeadlineExceeded.
	Timeout
	// Canceled indicates the attempt was aborted because its context
	// was cancelled without a deadline passing.
	Canceled
	// NoHost indicates the host name could not be resolved.
	NoHost
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED).
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// NetTimeout indicates a timeout inside the network stack, such as
	// a dial or DNS timeout configured on the transport, with no
	// cancellation by the caller. It is reported by any error in the
	// chain with a Timeout method returning true.
	NetTimeout
	categorySentinel
)

var categoryNames = []string{
	"",
	"timeout",
	"canceled",
	"no_host",
	"conn_refused",
	"conn_reset",
	"net_timeout",
}

// String returns the name of the category. Not has the empty name.
func (c Category) String() string {
	if c < 0 || c >= categorySentinel {
		return "unknown"
	}
	return categoryNames[c]
}

// Aborted reports whether the category means the attempt was aborted
// through its cancellation token. NetTimeout is not an abort.
func (c Category) Aborted() bool {
	return c == Timeout || c == Canceled
}

// Categorize returns the category of the given error, looking at the
// wrapped cause errors contained within err as well as err itself.
//
// Cancellation markers are checked first, so an error which wraps both
// a deadline and, say, a connection reset is categorized as Timeout.
// Timeouts reported by the network stack come next, ahead of the
// specific connection failures.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return NetTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NoHost
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
