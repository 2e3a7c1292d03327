// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/predicate"
	"github.com/gogama/rqx/request"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package. In
	// particular, it must abort the request and return an error
	// wrapping the context error when the request context is done.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

var discard = slog.New(slog.DiscardHandler)

// An Engine executes request specs and classifies their responses. Its
// zero value is a valid configuration.
//
// The zero value engine uses http.DefaultClient (from net/http) as the
// HTTPDoer, an empty handler group (no event handlers/plug-ins), and
// discards its log output.
//
// Engine makes exactly one transport call per execution at most, and
// never retries. Retry and caching belong to the caller; see package
// query for a caller that provides both.
//
// Engine is safe for concurrent use by multiple goroutines. Concurrent
// executions share no mutable state apart from the HTTPDoer and the
// handlers.
type Engine struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer

	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request spec.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup

	// Logger receives structured diagnostics about each execution.
	//
	// If Logger is nil, nothing is logged.
	Logger *slog.Logger
}

// Execute executes a request spec and returns the classified outcome.
//
// Execution proceeds in this order: the spec URL is parsed and the test
// flavor applied to it; the pause, if any, is waited out; a forced
// failure, if requested, ends the execution; the request is sent with
// an attempt timeout armed if the spec has one; the response body is
// read and decoded; and finally the decoded body is classified against
// the spec's predicate lists.
//
// Every failure is returned as a non-nil error whose dynamic type is
// *failure.Record, together with a nil outcome. A classified response
// is never an error, even if its result status is ErrorExpected or
// ErrorUnexpected.
//
// The pause is not counted against the spec timeout. If ctx is done
// while pausing, the execution ends with a Timeout failure without
// calling the transport.
//
// The attempt number recorded on the execution is taken from ctx; see
// WithAttempt.
func (eng *Engine) Execute(ctx context.Context, s *request.Spec) (*Outcome, error) {
	e := request.NewExecution(s)
	e.Attempt = AttemptFrom(ctx)

	handlers := eng.handlers()
	log := eng.logger().With("execution", e.ID, "attempt", e.Attempt)

	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()
	log.Debug("execution start",
		"method", s.MethodOrDefault(),
		"url", s.URL,
		"flavor", s.TestFlavor,
		"mode", s.Mode,
		"pause", s.Pause,
		"timeout", s.Timeout)

	out := eng.execute(ctx, e, handlers, log)
	cause := e.Err

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)

	if out == nil && e.Err == nil {
		e.Err = cause
	}
	if e.Err != nil {
		rec := eng.record(e)
		log.Warn("execution failed",
			"kind", rec.Kind,
			"code", rec.Code,
			"url", rec.URL,
			"httpCode", rec.HTTPCode,
			"duration", e.Duration(),
			"error", rec.Message)
		return nil, rec
	}

	log.Debug("execution classified",
		"status", out.ResultStatus,
		"httpCode", out.HTTPCode,
		"successId", out.PredicateSuccessMatchedID,
		"errorId", out.PredicateErrorMatchedID,
		"duration", e.Duration())
	return out, nil
}

// record replaces e.Err with the failure record it carries. An error
// without one, as an AfterExecutionEnd handler may put in place, is built
// into a Transport record.
func (eng *Engine) record(e *request.Execution) *failure.Record {
	rec, ok := failure.As(e.Err)
	if !ok {
		code := failure.NoHTTPCode
		if e.Response != nil {
			code = e.Response.StatusCode
		}
		rec = failure.Build(e.Err, failure.FromTransport, e.ResolvedURL(), e.Spec.MethodOrDefault(), code)
	}
	e.Err = rec
	return rec
}

func (eng *Engine) execute(ctx context.Context, e *request.Execution, handlers *HandlerGroup, log *slog.Logger) *Outcome {
	s := e.Spec
	method := s.MethodOrDefault()

	u, err := s.ResolveURL()
	if err != nil {
		e.Err = failure.Build(err, failure.FromURL, s.URL, method, failure.NoHTTPCode)
		return nil
	}
	e.URL = u
	log.Debug("url resolved", "url", u.String())

	if s.Pause > 0 {
		if err = pause(ctx, s.Pause); err != nil {
			e.Err = failure.Build(urlErrorWrap(method, u, err), failure.FromTransport, u.String(), method, failure.NoHTTPCode)
			return nil
		}
	}

	if s.TestFlavor.Forced() {
		e.Err = failure.NewForced(s.URL, method)
		return nil
	}

	attemptCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	sendAndReceive(attemptCtx, e, eng.doer(), handlers)
	if e.Err != nil {
		if e.Timeout() {
			handlers.run(AfterAttemptTimeout, e)
		}
		return nil
	}

	e.Data, err = decode(e.Body, s.Mode)
	if err != nil {
		e.Err = failure.Build(err, failure.FromDecode, u.String(), method, e.Response.StatusCode)
		return nil
	}

	e.Result = predicate.ClassifyMode(s.Mode, e.Data, s.PredicatesSuccess, s.PredicatesError, e.Response.StatusCode)
	handlers.run(AfterClassify, e)

	return newOutcome(e.Data, e.Response.StatusCode, statusText(e.Response), u.String(), method, e.Result, false)
}

func sendAndReceive(ctx context.Context, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup) {
	method := e.Spec.MethodOrDefault()
	e.Request = e.Spec.ToRequest(ctx, e.URL)
	handlers.run(BeforeAttempt, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Response = nil
		e.Err = failure.Build(urlErrorWrap(method, e.URL, err), failure.FromTransport, e.URL.String(), method, failure.NoHTTPCode)
	} else {
		readBody(e, handlers)
	}
}

func readBody(e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	b, err := io.ReadAll(e.Response.Body)
	if err != nil {
		method := e.Spec.MethodOrDefault()
		e.Err = failure.Build(urlErrorWrap(method, e.URL, err), failure.FromDecode, e.URL.String(), method, e.Response.StatusCode)
		return
	}
	e.Body = b
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// decode decodes a response body. Under predicate.Single a body which
// is not valid JSON is returned as a string.
func decode(body []byte, m predicate.Mode) (interface{}, error) {
	var v interface{}
	err := json.Unmarshal(body, &v)
	if err != nil && m == predicate.Single {
		return string(body), nil
	}
	return v, err
}

// statusText returns the reason phrase of the response status line, or
// the standard text for the status code if the status line has none.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if rest := strings.TrimPrefix(resp.Status, code); rest != resp.Status {
		if rest = strings.TrimSpace(rest); rest != "" {
			return rest
		}
	}
	return http.StatusText(resp.StatusCode)
}

func (eng *Engine) doer() HTTPDoer {
	if eng.HTTPDoer == nil {
		return http.DefaultClient
	}

	return eng.HTTPDoer
}

func (eng *Engine) handlers() *HandlerGroup {
	if eng.Handlers == nil {
		return &emptyHandlers
	}

	return eng.Handlers
}

func (eng *Engine) logger() *slog.Logger {
	if eng.Logger == nil {
		return discard
	}

	return eng.Logger
}

func urlErrorWrap(method string, u *url.URL, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: u.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
