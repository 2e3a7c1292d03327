// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import (
	"context"

	"github.com/gogama/rqx/request"
)

// Executor is the interface that wraps the basic Execute method.
//
// Execute executes a request spec and returns the classified outcome,
// or an error whose dynamic type is *failure.Record. Engine implements
// the Executor interface, and any other Executor implementation must
// behave substantially the same as Engine.Execute.
type Executor interface {
	Execute(ctx context.Context, s *request.Spec) (*Outcome, error)
}

// The ExecutorFunc type is an adapter to allow the use of ordinary
// functions as executors.
type ExecutorFunc func(ctx context.Context, s *request.Spec) (*Outcome, error)

// Execute calls f(ctx, s).
func (f ExecutorFunc) Execute(ctx context.Context, s *request.Spec) (*Outcome, error) {
	return f(ctx, s)
}

// IdleCloser is the interface that wraps the basic
// CloseIdleConnections method.
//
// The http.Client type from net/http implements IdleCloser.
type IdleCloser interface {
	CloseIdleConnections()
}

// CloseIdleConnections invokes the same method on the engine's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (eng *Engine) CloseIdleConnections() {
	if ic, ok := eng.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

type attemptKey struct{}

// WithAttempt returns a copy of ctx carrying the zero-based attempt
// number of the execution about to be made. Callers which retry use it
// so that event handlers and logs can tell attempts apart.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey{}, attempt)
}

// AttemptFrom returns the attempt number carried by ctx, or zero.
func AttemptFrom(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey{}).(int); ok {
		return n
	}
	return 0
}
