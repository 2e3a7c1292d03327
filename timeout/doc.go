// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines flexible policies for setting the attempt
// timeout of each execution made to settle a query, including on
// retries. A generic interface for timeout policies is provided, Policy,
// along with several useful policy generating functions and built-in
// policies.
//
// A timeout of zero means the attempt is never timed out.
package timeout
