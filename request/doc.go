// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Spec (describes one request to
execute and how to classify its result) and Execution (describes the
state of one execution of a Spec).

A Spec describes a logical HTTP request together with its fault
injection and classification configuration. For those familiar with the
Go standard HTTP library, net/http, a Spec looks like a stripped-down
http.Request with the body replaced by a pre-buffered []byte, plus the
predicate lists used to classify the response, a test flavor, an
artificial pause, and a timeout.

Create a spec:

	s, err := request.NewSpec("GET", "http://127.0.0.1:22124/values", nil)
	...
	s.PredicatesSuccess = predicate.List{{ID: "s1", HTTPCode: 200, Predicate: isList}}
	s.Timeout = 2 * time.Second
	...
	out, err := engine.Execute(ctx, s)

The URL of a Spec is kept as the caller wrote it. It is parsed when the
spec is executed, so an invalid URL is reported as an execution failure
rather than a construction failure.

Once handed to an executor a Spec must be treated as immutable. Use the
With methods to derive a modified copy.

The second core type is Execution, which represents the state of a
single execution of a Spec. Executions are handed to event handlers
while the execution progresses. You will typically not allocate
Execution instances yourself.
*/
package request
