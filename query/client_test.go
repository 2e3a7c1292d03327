// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogama/rqx"
	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/fixture"
	"github.com/gogama/rqx/flavor"
	"github.com/gogama/rqx/predicate"
	"github.com/gogama/rqx/request"
	"github.com/gogama/rqx/retry"
	"github.com/gogama/rqx/timeout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var server *httptest.Server

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	server = httptest.NewServer(fixture.NewRouter())
	code := m.Run()
	server.Close()
	os.Exit(code)
}

var noWait = retry.NewFixedWaiter(0)

func newSpec(t *testing.T, url string) *request.Spec {
	s, err := request.NewSpec("GET", url, nil)
	require.NoError(t, err)
	return s
}

// scripted returns an executor which replays results in order, and
// the number of calls made so far.
func scripted(results ...interface{}) (rqx.Executor, *int32) {
	var calls int32
	return rqx.ExecutorFunc(func(ctx context.Context, s *request.Spec) (*rqx.Outcome, error) {
		i := atomic.AddInt32(&calls, 1) - 1
		r := results[int(i)%len(results)]
		if out, ok := r.(*rqx.Outcome); ok {
			return out, nil
		}
		return nil, r.(error)
	}), &calls
}

func TestClient_Fetch(t *testing.T) {
	ctx := context.Background()
	ok := &rqx.Outcome{HTTPCode: 200, ResultStatus: predicate.Success, PredicateSuccessMatchedID: "s1"}
	forced := failure.NewForced("http://example.com/values", "GET")

	t.Run("success", func(t *testing.T) {
		exec, calls := scripted(ok)
		c := &Client{Executor: exec}
		s := newSpec(t, "http://example.com/values")

		st := c.Fetch(ctx, "values", s, Options{})

		assert.Equal(t, int32(1), *calls)
		assert.Equal(t, `["values"]`, st.Key)
		assert.Equal(t, Success, st.Status)
		assert.True(t, st.Settled)
		assert.True(t, st.IsFetched)
		assert.Same(t, ok, st.Data)
		assert.Empty(t, st.Error)
		assert.Equal(t, 0, st.FailureCount)
		assert.Equal(t, st, c.Peek([]string{"values"}))
	})
	t.Run("failure not retried by default", func(t *testing.T) {
		exec, calls := scripted(forced)
		c := &Client{Executor: exec}

		st := c.Fetch(ctx, "values", newSpec(t, "http://example.com/values"), Options{})

		assert.Equal(t, int32(1), *calls)
		assert.Equal(t, Error, st.Status)
		assert.True(t, st.Settled)
		assert.True(t, st.IsFetched)
		assert.Nil(t, st.Data)
		assert.Equal(t, 1, st.FailureCount)
		rec, err := st.ErrorRecord()
		require.NoError(t, err)
		assert.Equal(t, forced, rec)
	})
	t.Run("retry then success", func(t *testing.T) {
		var attempts []int
		var timeouts []time.Duration
		var lock sync.Mutex
		results := []error{forced, forced, nil}
		exec := rqx.ExecutorFunc(func(ctx context.Context, s *request.Spec) (*rqx.Outcome, error) {
			lock.Lock()
			defer lock.Unlock()
			attempts = append(attempts, rqx.AttemptFrom(ctx))
			timeouts = append(timeouts, s.Timeout)
			if err := results[len(attempts)-1]; err != nil {
				return nil, err
			}
			return ok, nil
		})
		c := &Client{Executor: exec}
		s := newSpec(t, "http://example.com/values")
		s.Timeout = 10 * time.Second

		st := c.Fetch(ctx, "values", s, Options{
			RetryPolicy: retry.NewPolicy(retry.Times(2), noWait),
		})

		assert.Equal(t, []int{0, 1, 2}, attempts)
		assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second, 10 * time.Second}, timeouts)
		assert.Equal(t, Success, st.Status)
		assert.Same(t, ok, st.Data)
		assert.Equal(t, 10*time.Second, s.Timeout)
	})
	t.Run("retries exhausted", func(t *testing.T) {
		exec, calls := scripted(forced)
		c := &Client{Executor: exec}

		st := c.Fetch(ctx, "values", newSpec(t, "http://example.com/values"), Options{
			RetryPolicy: retry.NewPolicy(retry.Times(3), noWait),
		})

		assert.Equal(t, int32(4), *calls)
		assert.Equal(t, Error, st.Status)
		assert.Equal(t, 4, st.FailureCount)
	})
	t.Run("adaptive timeout", func(t *testing.T) {
		timedOut := &failure.Record{Kind: failure.Timeout, Code: "timeout", HTTPCode: failure.NoHTTPCode}
		var timeouts []time.Duration
		exec := rqx.ExecutorFunc(func(_ context.Context, s *request.Spec) (*rqx.Outcome, error) {
			timeouts = append(timeouts, s.Timeout)
			return nil, timedOut
		})
		c := &Client{Executor: exec}

		c.Fetch(ctx, "values", newSpec(t, "http://example.com/values"), Options{
			RetryPolicy:   retry.NewPolicy(retry.Times(2), noWait),
			TimeoutPolicy: timeout.Adaptive(10*time.Millisecond, 20*time.Millisecond, 40*time.Millisecond),
		})

		assert.Equal(t, []time.Duration{
			10 * time.Millisecond,
			20 * time.Millisecond,
			40 * time.Millisecond,
		}, timeouts)
	})
	t.Run("plain error", func(t *testing.T) {
		exec, _ := scripted(errors.New("boom"))
		c := &Client{Executor: exec}

		st := c.Fetch(ctx, "values", newSpec(t, "http://example.com/values"), Options{})

		rec, err := st.ErrorRecord()
		require.NoError(t, err)
		assert.Equal(t, failure.Transport, rec.Kind)
		assert.Equal(t, "boom", rec.Message)
		assert.Equal(t, "http://example.com/values", rec.URL)
	})
	t.Run("error keeps data", func(t *testing.T) {
		exec, _ := scripted(ok, forced)
		c := &Client{Executor: exec}
		s := newSpec(t, "http://example.com/values")

		c.Fetch(ctx, "values", s, Options{})
		st := c.Fetch(ctx, "values", s, Options{})

		assert.Equal(t, Error, st.Status)
		assert.Same(t, ok, st.Data)
		assert.NotEmpty(t, st.Error)
	})
	t.Run("context canceled stops retrying", func(t *testing.T) {
		exec, calls := scripted(forced)
		c := &Client{Executor: exec}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		st := c.Fetch(ctx, "values", newSpec(t, "http://example.com/values"), Options{
			RetryPolicy: retry.NewPolicy(retry.Times(5), retry.NewFixedWaiter(time.Hour)),
		})

		assert.Less(t, time.Since(start), time.Minute)
		assert.Equal(t, int32(1), *calls)
		assert.Equal(t, Error, st.Status)
		assert.Equal(t, 1, st.FailureCount)
	})
}

func TestClient_Disabled(t *testing.T) {
	exec, calls := scripted(&rqx.Outcome{})
	c := &Client{Executor: exec}
	s := newSpec(t, "http://example.com/values")
	s.PredicatesSuccess = predicate.List{{ID: "seed", HTTPCode: predicate.AnyCode, Predicate: predicate.Path("values").IsArray()}}
	initial := map[string]interface{}{"values": []interface{}{}}

	st := c.Fetch(context.Background(), "values", s, Options{Disabled: true, InitialData: initial})

	assert.Equal(t, int32(0), *calls)
	assert.Equal(t, Idle, st.Status)
	assert.False(t, st.Settled)
	assert.False(t, st.IsFetched)
	require.NotNil(t, st.Data)
	assert.True(t, st.Data.IsInitialData)
	assert.Equal(t, rqx.InitialDataDescription, st.Data.HTTPCodeDesc)
	assert.Equal(t, "seed", st.Data.PredicateSuccessMatchedID)
	assert.Equal(t, st, c.Peek("values"))
}

func TestClient_InitialData(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetched := &rqx.Outcome{HTTPCode: 200, ResultStatus: predicate.ErrorUnexpected}
	exec := rqx.ExecutorFunc(func(_ context.Context, _ *request.Spec) (*rqx.Outcome, error) {
		close(started)
		<-release
		return fetched, nil
	})
	c := &Client{Executor: exec}
	s := newSpec(t, "http://example.com/values")
	s.InitialDataHTTPCode = 200

	done := make(chan State)
	go func() {
		done <- c.Fetch(context.Background(), "values", s, Options{InitialData: []interface{}{1.0}})
	}()
	<-started

	loading := c.Peek("values")
	assert.Equal(t, Loading, loading.Status)
	assert.False(t, loading.Settled)
	assert.False(t, loading.IsFetched)
	require.NotNil(t, loading.Data)
	assert.True(t, loading.Data.IsInitialData)
	assert.Equal(t, 200, loading.Data.HTTPCode)
	assert.Equal(t, []interface{}{1.0}, loading.Data.Data)

	close(release)
	st := <-done

	assert.Equal(t, Success, st.Status)
	assert.Same(t, fetched, st.Data)
	assert.False(t, st.Data.IsInitialData)
}

func TestClient_Dedup(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	out := &rqx.Outcome{HTTPCode: 200}
	exec := rqx.ExecutorFunc(func(_ context.Context, _ *request.Spec) (*rqx.Outcome, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
		return out, nil
	})
	c := &Client{Executor: exec}
	s := newSpec(t, "http://example.com/values")

	n := 10
	states := make(chan State, n)
	for i := 0; i < n; i++ {
		go func() {
			states <- c.Fetch(context.Background(), "values", s, Options{StaleTime: time.Hour})
		}()
	}
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)

	for i := 0; i < n; i++ {
		st := <-states
		assert.Equal(t, Success, st.Status)
		assert.Same(t, out, st.Data)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_StaleTime(t *testing.T) {
	exec, calls := scripted(&rqx.Outcome{HTTPCode: 200})
	c := &Client{Executor: exec}
	s := newSpec(t, "http://example.com/values")
	opts := Options{StaleTime: time.Hour}

	c.Fetch(context.Background(), "values", s, opts)
	c.Fetch(context.Background(), "values", s, opts)
	assert.Equal(t, int32(1), *calls)

	c.Fetch(context.Background(), "values", s, Options{})
	assert.Equal(t, int32(2), *calls)

	c.Invalidate("values")
	assert.Equal(t, Idle, c.Peek("values").Status)
	c.Fetch(context.Background(), "values", s, opts)
	assert.Equal(t, int32(3), *calls)
}

func TestClient_Focus(t *testing.T) {
	var lock sync.Mutex
	var urls []string
	exec := rqx.ExecutorFunc(func(_ context.Context, s *request.Spec) (*rqx.Outcome, error) {
		lock.Lock()
		defer lock.Unlock()
		urls = append(urls, s.URL)
		return &rqx.Outcome{HTTPCode: 200}, nil
	})
	c := &Client{Executor: exec}
	ctx := context.Background()

	c.Fetch(ctx, "a", newSpec(t, "http://example.com/a"), Options{RefetchOnWindowFocus: true, StaleTime: time.Hour})
	c.Fetch(ctx, "b", newSpec(t, "http://example.com/b"), Options{})
	c.Fetch(ctx, []interface{}{"c", 1}, newSpec(t, "http://example.com/c"), Options{RefetchOnWindowFocus: true})
	urls = nil

	states := c.Focus(ctx)

	require.Len(t, states, 2)
	sort.Strings(urls)
	assert.Equal(t, []string{"http://example.com/a", "http://example.com/c"}, urls)
	keys := []string{states[0].Key, states[1].Key}
	sort.Strings(keys)
	assert.Equal(t, []string{`["a"]`, `["c",1]`}, keys)
}

func TestClient_Engine(t *testing.T) {
	c := &Client{Executor: &rqx.Engine{HTTPDoer: server.Client()}}
	ctx := context.Background()

	t.Run("values", func(t *testing.T) {
		s := newSpec(t, server.URL+"/values")
		s.PredicatesSuccess = predicate.List{
			{ID: "values", HTTPCode: 200, Predicate: predicate.Path("values").Every(predicate.Path("val").IsNumber())},
		}

		st := c.Fetch(ctx, "values", s, Options{})

		assert.Equal(t, Success, st.Status)
		require.NotNil(t, st.Data)
		assert.Equal(t, "values", st.Data.PredicateSuccessMatchedID)
		assert.Equal(t, server.URL+"/values", st.Data.URL)
	})
	t.Run("forced", func(t *testing.T) {
		s := newSpec(t, server.URL+"/values")
		s.TestFlavor = flavor.ForceErrorAfterPause
		s.Pause = 5 * time.Millisecond

		st := c.Fetch(ctx, "forced", s, Options{RetryPolicy: retry.NewPolicy(retry.Times(1), noWait)})

		assert.Equal(t, Error, st.Status)
		assert.Equal(t, 2, st.FailureCount)
		rec, err := st.ErrorRecord()
		require.NoError(t, err)
		assert.Equal(t, failure.Forced, rec.Kind)
		assert.Equal(t, failure.ForcedMessage, rec.Message)
		assert.Equal(t, failure.NoHTTPCode, rec.HTTPCode)
	})
	t.Run("timeout", func(t *testing.T) {
		s := newSpec(t, server.URL+"/slow?ms=1000")
		s.Timeout = 10 * time.Millisecond

		st := c.Fetch(ctx, "slow", s, Options{})

		rec, err := st.ErrorRecord()
		require.NoError(t, err)
		assert.Equal(t, failure.Timeout, rec.Kind)
	})
}
