// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package rqx executes HTTP requests described by a request spec and
classifies each response against ordered lists of predicates.

Create an Engine and a spec to begin making requests.

	spec, err := request.NewSpec("GET", "https://api.example.com/values", nil)
	...
	spec.PredicatesSuccess = predicate.List{
		{ID: "values", HTTPCode: 200, Predicate: predicate.Path("values").IsArray()},
	}
	spec.PredicatesError = predicate.List{
		{ID: "rejected", HTTPCode: 422, Predicate: predicate.Path("error.code").IsString()},
	}
	engine := &rqx.Engine{}
	out, err := engine.Execute(ctx, spec)

A response that decodes is always returned as an Outcome, whatever its
status code. The Outcome's ResultStatus tells whether a success
descriptor matched (predicate.Success), an error descriptor matched
(predicate.ErrorExpected), or nothing matched (predicate.ErrorUnexpected).

Everything else, from an unparseable URL to an aborted request, is
returned as an error whose dynamic type is *failure.Record:

	out, err := engine.Execute(ctx, spec)
	if rec, ok := failure.As(err); ok {
		switch rec.Kind {
		case failure.Timeout:
			...
		}
	}

For control over how the engine sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	engine := &rqx.Engine{
		HTTPDoer: &http.Client{...},
	}

To exercise failure paths deterministically, set a test flavor on the
spec (see package flavor). To hook into the fine-grained details of an
execution, install a handler into the appropriate handler chain:

	handlers := &rqx.HandlerGroup{}
	handlers.PushBack(rqx.BeforeAttempt, rqx.HandlerFunc(
		func(_ rqx.Event, e *request.Execution) {
			logger.Info("sending", "url", e.Request.URL.String())
		}),
	)
	engine := &rqx.Engine{
		Handlers: handlers,
	}

The engine never retries and keeps no state between executions. Use
package query for caching, request deduplication, retries, and
placeholder data reconciled through Reconcile.
*/
package rqx
