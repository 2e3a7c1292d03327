// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"testing"
	"time"

	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/request"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Run("Decider", func(t *testing.T) {
		s := []int{429, 502, 503, 504}
		for i := 0; i < DefaultTimes; i++ {
			assert.True(t, DefaultPolicy.Decide(&request.Progress{
				Attempt: i,
				Err:     &failure.Record{Kind: failure.BodyDecode, HTTPCode: s[i%len(s)]},
			}))
			assert.True(t, DefaultPolicy.Decide(&request.Progress{
				Attempt: i,
				Err:     &failure.Record{Kind: failure.Transport, Code: "conn_reset", HTTPCode: failure.NoHTTPCode},
			}))
		}
		assert.False(t, DefaultPolicy.Decide(&request.Progress{
			Attempt: DefaultTimes,
			Err:     &failure.Record{Kind: failure.Timeout, Code: "timeout", HTTPCode: failure.NoHTTPCode},
		}))
	})
	t.Run("Waiter", func(t *testing.T) {
		m := []time.Duration{1, 2, 4, 8, 16, 30, 30}
		for i, want := range m {
			w := DefaultPolicy.Wait(&request.Progress{Attempt: i})
			assert.Equal(t, want*time.Second, w)
		}
	})
}

func TestNever(t *testing.T) {
	rec := &failure.Record{Kind: failure.Transport, Code: "conn_reset"}
	assert.False(t, Never.Decide(&request.Progress{Err: rec}))
	assert.False(t, Never.Decide(&request.Progress{Attempt: 1, Err: rec}))
}

func TestCount(t *testing.T) {
	assert.PanicsWithValue(t, "rqx/retry: negative retry count", func() { Count(-1) })
	rec := &failure.Record{Kind: failure.Forced, Message: failure.ForcedMessage}
	assert.False(t, Count(0).Decide(&request.Progress{Attempt: 0, Err: rec}))
	p := Count(2)
	assert.True(t, p.Decide(&request.Progress{Attempt: 0, Err: rec}))
	assert.True(t, p.Decide(&request.Progress{Attempt: 1, Err: rec}))
	assert.False(t, p.Decide(&request.Progress{Attempt: 2, Err: rec}))
	assert.Equal(t, 2*time.Second, p.Wait(&request.Progress{Attempt: 1}))
}

func TestNewPolicy(t *testing.T) {
	p := &testPolicy{}
	t.Run("Bad Args", func(t *testing.T) {
		assert.PanicsWithValue(t, "rqx/retry: nil decider", func() { NewPolicy(nil, p) })
		assert.PanicsWithValue(t, "rqx/retry: nil waiter", func() { NewPolicy(p, nil) })
	})
	t.Run("Normal", func(t *testing.T) {
		P := NewPolicy(p, p)
		assert.True(t, P.Decide(&request.Progress{}))
		assert.Equal(t, 1, p.d)
		assert.Equal(t, time.Second, P.Wait(&request.Progress{}))
		assert.Equal(t, 1, p.w)
	})
}

type testPolicy struct {
	d int
	w int
}

func (p *testPolicy) Decide(_ *request.Progress) bool {
	p.d++
	return true
}

func (p *testPolicy) Wait(_ *request.Progress) time.Duration {
	p.w++
	return time.Second
}
