// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gogama/rqx"
	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/request"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTime is how long an unused query is kept when
// Client.CacheTime is zero.
const DefaultCacheTime = 5 * time.Minute

// A Client settles queries and caches their states. Its zero value is a
// valid configuration which executes specs with a zero value rqx.Engine.
//
// Client is safe for concurrent use by multiple goroutines. Concurrent
// fetches of the same key share one fetch: at most one execution per key
// is in flight at any time.
type Client struct {
	// Executor executes specs. If nil, a zero value rqx.Engine is used.
	Executor rqx.Executor

	// Logger receives structured diagnostics about fetches. If nil,
	// nothing is logged.
	Logger *slog.Logger

	// CacheTime is how long a query's state is kept after it was last
	// updated. If zero, DefaultCacheTime is used.
	CacheTime time.Duration

	once  sync.Once
	slots *cache.Cache
	group singleflight.Group
}

type slot struct {
	state State
	spec  *request.Spec
	opts  Options
}

var defaultEngine = &rqx.Engine{}

var discard = slog.New(slog.DiscardHandler)

// Fetch settles the query named by key by executing s, unless the query
// is disabled or still fresh, and returns the resulting state.
//
// Failed attempts are retried according to the options' retry policy,
// and each attempt is given the timeout chosen by the options' timeout
// policy. If ctx is done, Fetch stops retrying and returns the state
// after the last failure.
//
// If another fetch of the same key is in flight, Fetch waits for it and
// returns its state instead of executing s.
//
// Fetch panics if key cannot be normalized; see Key.
func (c *Client) Fetch(ctx context.Context, key interface{}, s *request.Spec, opts Options) State {
	c.init()
	k := mustKey(key)
	log := c.logger().With("key", k)

	current := c.peek(k)
	if opts.Disabled {
		log.Debug("query disabled")
		if !current.IsFetched {
			current = c.placeholder(k, current, s, &opts, log)
			c.store(k, &slot{state: current, spec: s, opts: opts})
		}
		return current
	}
	if current.Fresh(opts.StaleTime) {
		log.Debug("query fresh", "updatedAt", current.UpdatedAt)
		return current
	}

	v, _, shared := c.group.Do(k, func() (interface{}, error) {
		return c.fetch(ctx, k, s, opts, log), nil
	})
	if shared {
		log.Debug("query fetch shared")
	}
	return v.(State)
}

// Peek returns the current state of the query named by key without
// fetching it. A query which was never fetched is Idle.
//
// Peek panics if key cannot be normalized; see Key.
func (c *Client) Peek(key interface{}) State {
	c.init()
	return c.peek(mustKey(key))
}

// Invalidate drops the cached state of the query named by key, so that
// the next Fetch executes its spec even if it was fresh.
func (c *Client) Invalidate(key interface{}) {
	c.init()
	c.slots.Delete(mustKey(key))
}

// Focus refetches every cached query whose options have
// RefetchOnWindowFocus set and which is not disabled, and returns their
// new states.
func (c *Client) Focus(ctx context.Context) []State {
	c.init()
	var states []State
	for k, item := range c.slots.Items() {
		sl := item.Object.(*slot)
		if !sl.opts.RefetchOnWindowFocus || sl.opts.Disabled || sl.spec == nil {
			continue
		}
		opts := sl.opts
		opts.StaleTime = 0
		states = append(states, c.Fetch(ctx, rawKey(k), sl.spec, opts))
	}
	return states
}

func (c *Client) fetch(ctx context.Context, k string, s *request.Spec, opts Options, log *slog.Logger) State {
	st := c.peek(k)
	if !st.IsFetched {
		st = c.placeholder(k, st, s, &opts, log)
	}
	if st.Status == Idle {
		st.Status = Loading
	}
	st.Settled = false
	st.UpdatedAt = time.Now()
	c.store(k, &slot{state: st, spec: s, opts: opts})

	exec := c.executor()
	retryPolicy := opts.retryPolicy()
	timeoutPolicy := opts.timeoutPolicy()
	progress := &request.Progress{Spec: s, Start: time.Now()}

	for {
		attemptSpec := s.WithTimeout(timeoutPolicy.Timeout(progress))
		out, err := exec.Execute(rqx.WithAttempt(ctx, progress.Attempt), attemptSpec)
		if err == nil {
			st = State{
				Key:       k,
				Status:    Success,
				Settled:   true,
				IsFetched: true,
				Data:      out,
				UpdatedAt: time.Now(),
			}
			log.Debug("query settled", "status", out.ResultStatus, "attempts", progress.Attempt+1)
			break
		}

		rec := asRecord(err, s)
		progress.Record(rec)
		if ctx.Err() == nil && retryPolicy.Decide(progress) {
			wait := retryPolicy.Wait(progress)
			log.Debug("query retrying", "kind", rec.Kind, "attempt", progress.Attempt, "wait", wait)
			if sleep(ctx, wait) {
				progress.Attempt++
				continue
			}
		}

		st.Status = Error
		st.Settled = true
		st.IsFetched = true
		st.Error = rec.String()
		st.FailureCount = progress.Attempt + 1
		st.UpdatedAt = time.Now()
		log.Warn("query failed", "kind", rec.Kind, "attempts", progress.Attempt+1, "error", rec.Message)
		break
	}

	c.store(k, &slot{state: st, spec: s, opts: opts})
	return st
}

func (c *Client) placeholder(k string, st State, s *request.Spec, opts *Options, log *slog.Logger) State {
	if opts.InitialData == nil {
		return st
	}

	out, err := rqx.Reconcile(s, opts.InitialData)
	if err != nil {
		log.Warn("initial data not reconciled", "error", err)
		return st
	}

	st.Key = k
	st.Data = out
	return st
}

func (c *Client) peek(k string) State {
	if v, ok := c.slots.Get(k); ok {
		return v.(*slot).state
	}
	return State{Key: k, Status: Idle}
}

func (c *Client) store(k string, sl *slot) {
	c.slots.Set(k, sl, cache.DefaultExpiration)
}

func (c *Client) init() {
	c.once.Do(func() {
		d := c.CacheTime
		if d <= 0 {
			d = DefaultCacheTime
		}
		c.slots = cache.New(d, time.Minute)
	})
}

func (c *Client) executor() rqx.Executor {
	if c.Executor == nil {
		return defaultEngine
	}
	return c.Executor
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

// asRecord returns the failure record carried by err. Executors other
// than rqx.Engine may return plain errors, which are treated as
// transport failures.
func asRecord(err error, s *request.Spec) *failure.Record {
	if rec, ok := failure.As(err); ok {
		return rec
	}
	return failure.Build(err, failure.FromTransport, s.URL, s.MethodOrDefault(), failure.NoHTTPCode)
}

// sleep waits for d and reports whether it did so before ctx was done.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// rawKey is a key which is already normalized.
type rawKey string
