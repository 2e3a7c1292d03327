// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package query provides a request cache which settles keyed queries by
executing request specs, retrying failures, and deduplicating concurrent
fetches of the same key.

	client := &query.Client{}
	state := client.Fetch(ctx, "values", spec, query.Options{Retry: 2})
	if state.Status == query.Error {
		rec, _ := state.ErrorRecord()
		...
	}

A key is a string or any JSON-encodable value. A string key is
equivalent to a one-element array key holding the string, so "values"
and []string{"values"} name the same query.

While a query has never settled, its state carries placeholder data
classified by rqx.Reconcile if Options.InitialData is set.

Failures are stored in a State as the string form of a failure record,
so that a State can be copied, logged, or encoded as JSON without
losing information. Use State.ErrorRecord to recover the record.
*/
package query
