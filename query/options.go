// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"time"

	"github.com/gogama/rqx/retry"
	"github.com/gogama/rqx/timeout"
)

// Options control how a query is fetched. The zero value is a valid
// configuration: the query is enabled, failures are not retried, the
// spec's own timeout is used, and every fetch executes the spec.
type Options struct {
	// Disabled prevents the query from being fetched. Fetch returns the
	// current state of a disabled query without executing anything.
	Disabled bool

	// Retry is the number of times a failed attempt is retried. Zero or
	// less means never. It is ignored if RetryPolicy is set.
	Retry int

	// RetryPolicy decides whether and when failed attempts are retried.
	RetryPolicy retry.Policy

	// TimeoutPolicy sets the timeout of each attempt. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// InitialData is placeholder response data which is classified and
	// exposed until the query settles for the first time.
	InitialData interface{}

	// RefetchOnWindowFocus marks the query for refetching by
	// Client.Focus.
	RefetchOnWindowFocus bool

	// StaleTime is how long a successful fetch stays fresh. A fresh
	// query is not fetched again. Zero means immediately stale.
	StaleTime time.Duration
}

func (o *Options) retryPolicy() retry.Policy {
	if o.RetryPolicy != nil {
		return o.RetryPolicy
	}
	if o.Retry <= 0 {
		return retry.Never
	}
	return retry.Count(o.Retry)
}

func (o *Options) timeoutPolicy() timeout.Policy {
	if o.TimeoutPolicy != nil {
		return o.TimeoutPolicy
	}
	return timeout.DefaultPolicy
}
