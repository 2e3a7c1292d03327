// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"time"

	"github.com/gogama/rqx"
	"github.com/gogama/rqx/failure"
)

// A Status is the fetch status of a query.
type Status string

const (
	// Idle means the query has never been fetched, for example
	// because it is disabled.
	Idle Status = "idle"
	// Loading means a fetch is in flight and the query has never
	// settled.
	Loading Status = "loading"
	// Success means the latest fetch produced an outcome.
	Success Status = "success"
	// Error means the latest fetch failed after all retries.
	Error Status = "error"
)

// A State is a snapshot of a query.
type State struct {
	// Key is the normalized query key.
	Key string `json:"key"`
	// Status is the fetch status.
	Status Status `json:"status"`
	// Settled is true when no fetch of the query is in flight and at
	// least one fetch has finished.
	Settled bool `json:"settled"`
	// IsFetched is true once at least one fetch has finished,
	// successfully or not.
	IsFetched bool `json:"isFetched"`
	// Data is the most recent outcome. While the query has never been
	// fetched it holds the reconciled placeholder, if any. It is kept
	// when a later fetch fails.
	Data *rqx.Outcome `json:"data"`
	// Error is the string form of the failure record of the latest
	// fetch, or empty if the latest fetch succeeded.
	Error string `json:"error,omitempty"`
	// FailureCount is the number of failed attempts in the latest
	// fetch.
	FailureCount int `json:"failureCount"`
	// UpdatedAt is the time the state last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrorRecord parses the failure record held in Error. If Error is
// empty it returns nil and no error.
func (s State) ErrorRecord() (*failure.Record, error) {
	if s.Error == "" {
		return nil, nil
	}
	return failure.Parse(s.Error)
}

// Fresh reports whether the state is a successful fetch no older than
// staleTime.
func (s State) Fresh(staleTime time.Duration) bool {
	return staleTime > 0 && s.Status == Success && time.Since(s.UpdatedAt) < staleTime
}
