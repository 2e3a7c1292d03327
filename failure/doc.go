// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package failure normalizes every way a request execution can fail into
one error type, Record.

A Record carries the failure Kind (url error, json error, fetch error,
timeout error, or forced error), the URL and method of the request, the
best-known HTTP status code (-1 when none was received), and the message,
code, and name of the underlying cause.

Build turns a raw error plus the stage it came from into a Record:

	rec := failure.Build(err, failure.FromTransport, u.String(), "GET", failure.NoHTTPCode)

A Record is an ordinary Go error. Where a Record has to cross a boundary
that can only carry strings, use Record.String to serialize it and Parse
to recover the structured fields:

	s := rec.String()
	...
	rec, err := failure.Parse(s)
*/
package failure
