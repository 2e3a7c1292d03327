// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import (
	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/predicate"
	"github.com/gogama/rqx/request"
)

// Reconcile classifies placeholder data as though it had been received
// with the spec's InitialDataHTTPCode, and returns an outcome with the
// same shape as one returned by Engine.Execute. The outcome's
// description is InitialDataDescription and its IsInitialData flag is
// set.
//
// Reconcile makes no request and does not pause. It only fails if the
// spec URL cannot be resolved, in which case the error is a
// *failure.Record of kind URLInvalid.
func Reconcile(s *request.Spec, initialData interface{}) (*Outcome, error) {
	method := s.MethodOrDefault()
	u, err := s.ResolveURL()
	if err != nil {
		return nil, failure.Build(err, failure.FromURL, s.URL, method, failure.NoHTTPCode)
	}

	r := predicate.ClassifyMode(s.Mode, initialData, s.PredicatesSuccess, s.PredicatesError, s.InitialDataHTTPCode)
	return newOutcome(initialData, s.InitialDataHTTPCode, InitialDataDescription, u.String(), method, r, true), nil
}
