// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes errors from an HTTP request attempt by
// inspecting the error chain, never the error text. Its main job is to
// tell a cancelled or timed-out attempt apart from every other network
// failure; it also names a few common network failures for reporting.
//
// Package transient depends only on the standard library.
package transient
