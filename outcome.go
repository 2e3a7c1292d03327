// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rqx

import (
	"encoding/json"

	"github.com/gogama/rqx/predicate"
)

// InitialDataDescription is the status description of outcomes made by
// Reconcile.
const InitialDataDescription = "initial data"

// An Outcome is the classified result of one execution, or of
// reconciling placeholder data.
//
// The JSON encoding of an Outcome uses the field names data, httpCode,
// httpCodeDesc, url, method, predicateSuccessMatchedId,
// predicateErrorMatchedId, resultStatus, and isInitialData. An empty
// matched id is encoded as null.
type Outcome struct {
	// Data is the decoded response body.
	Data interface{} `json:"data"`
	// HTTPCode is the status code received. A code of 0 is passed
	// through as is.
	HTTPCode int `json:"httpCode"`
	// HTTPCodeDesc is the reason phrase of the status, or
	// InitialDataDescription.
	HTTPCodeDesc string `json:"httpCodeDesc"`
	// URL is the resolved URL, after the test flavor was applied.
	URL string `json:"url"`
	// Method is the HTTP method.
	Method string `json:"method"`
	// PredicateSuccessMatchedID is the id of the matching success
	// descriptor, if any.
	PredicateSuccessMatchedID string `json:"predicateSuccessMatchedId"`
	// PredicateErrorMatchedID is the id of the matching error
	// descriptor, if any.
	PredicateErrorMatchedID string `json:"predicateErrorMatchedId"`
	// ResultStatus is the classification status.
	ResultStatus predicate.Status `json:"resultStatus"`
	// IsInitialData is true if the outcome was made from placeholder
	// data rather than a response.
	IsInitialData bool `json:"isInitialData"`
}

func newOutcome(data interface{}, httpCode int, desc, url, method string, r predicate.Result, initial bool) *Outcome {
	return &Outcome{
		Data:                      data,
		HTTPCode:                  httpCode,
		HTTPCodeDesc:              desc,
		URL:                       url,
		Method:                    method,
		PredicateSuccessMatchedID: r.SuccessMatchedID,
		PredicateErrorMatchedID:   r.ErrorMatchedID,
		ResultStatus:              r.Status,
		IsInitialData:             initial,
	}
}

// Result returns the classification part of the outcome.
func (o *Outcome) Result() predicate.Result {
	return predicate.Result{
		SuccessMatchedID: o.PredicateSuccessMatchedID,
		ErrorMatchedID:   o.PredicateErrorMatchedID,
		Status:           o.ResultStatus,
	}
}

// MarshalJSON encodes the outcome, writing empty matched ids as null.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	return json.Marshal(struct {
		plain
		PredicateSuccessMatchedID *string `json:"predicateSuccessMatchedId"`
		PredicateErrorMatchedID   *string `json:"predicateErrorMatchedId"`
	}{
		plain:                     plain(o),
		PredicateSuccessMatchedID: nullable(o.PredicateSuccessMatchedID),
		PredicateErrorMatchedID:   nullable(o.PredicateErrorMatchedID),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
