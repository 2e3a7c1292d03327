// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fixture provides a small HTTP server with canned endpoints for
exercising request execution and response classification end to end.

The router is a Gin engine, so it can be served by a real listener with
Serve or wrapped by httptest.NewServer in tests:

	server := httptest.NewServer(fixture.NewRouter())
	defer server.Close()

Endpoints:

	GET  /values          200 {"values":[{"val":1},{"val":2}]}
	ANY  /error           422 {"error":{"code":"422","message":"unprocessable"}}
	GET  /slow?ms=N       sleeps N milliseconds, then behaves like /values
	GET  /text            200 text/plain body that is not JSON
	GET  /empty           200 with an empty body
	ANY  /status/:code    the given status with {"status":code}
	ANY  /echo            200 echoing the method, headers, and JSON body
*/
package fixture
