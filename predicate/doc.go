// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package predicate classifies a decoded response body against ordered
lists of expectations.

A Descriptor pairs an id, a required HTTP status code (AnyCode matches
every code), and a Func checking the body's shape. Two Lists are
consulted: the success list first and the error list second.

	success := predicate.List{
		{ID: "s1", HTTPCode: 200, Predicate: predicate.Path("values").Every(predicate.Path("val").IsNumber())},
	}
	errs := predicate.List{
		{ID: "e1", HTTPCode: 422, Predicate: predicate.Path("error.code").IsString()},
	}
	res := predicate.Classify(body, success, errs, 422)

The first descriptor of a list whose Func accepts the body and whose code
filter accepts the status code wins. A success match always suppresses
the error list: no error descriptor is evaluated at all.
*/
package predicate
