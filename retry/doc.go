// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides flexible policies for retrying failed attempts
// to settle a query, and how long to wait before retrying.
//
// The engine in package rqx never retries. Retry policies are applied by
// the caller, for example the query client in package query, after an
// execution fails with a failure record. A classified outcome is never
// retried, even if its result status is an error status.
//
// The interface Policy defines a retry Policy. A Policy instance can be
// constructed using NewPolicy by providing a decision-maker, Decider,
// and a wait time calculator, Waiter. Both Decider and Waiter have
// constructors for common use cases, so that a useful policy can be
// quickly assembled:
//
//	decider := retry.Times(3).
//	               And(retry.Before(5 * time.Second)).
//	               And(retry.Kinds(failure.Timeout).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, retry.FullJitter(time.Now().UnixNano()))
//	policy := retry.NewPolicy(decider, waiter)
//
// For the common case of retrying any failure a fixed number of times,
// use Count.
package retry
