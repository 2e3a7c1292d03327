// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package flavor implements deliberate fault injection for exercising
// the failure paths of a request execution.
//
// A Flavor is chosen once per request spec. CorruptPath and CorruptHost
// rewrite the request URL before it is sent; ForceErrorAfterPause leaves
// the URL alone and instead makes the engine fail right after the
// spec's pause, without ever calling the transport.
package flavor
