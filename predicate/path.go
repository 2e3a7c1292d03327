// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package predicate

import (
	"reflect"
	"strings"

	"github.com/ysmood/gson"
)

// A Selector picks a value out of a decoded body by a dot-separated
// path, for example "error.code" or "values.0.val". The empty path
// selects the body itself.
type Selector struct {
	sections []interface{}
}

// Path returns the Selector for the given path.
func Path(path string) Selector {
	if path == "" {
		return Selector{}
	}
	return Selector{sections: gson.Path(path)}
}

func (s Selector) get(body interface{}) (interface{}, bool) {
	if len(s.sections) == 0 {
		return body, true
	}
	j, ok := gson.New(body).Gets(s.sections...)
	if !ok {
		return nil, false
	}
	return j.Val(), true
}

// Exists accepts bodies where the path selects a value, even null.
func (s Selector) Exists() Func {
	return func(body interface{}) bool {
		_, ok := s.get(body)
		return ok
	}
}

// IsString accepts bodies where the path selects a string.
func (s Selector) IsString() Func {
	return s.is(func(v interface{}) bool {
		_, ok := v.(string)
		return ok
	})
}

// IsNumber accepts bodies where the path selects a number.
func (s Selector) IsNumber() Func {
	return s.is(func(v interface{}) bool {
		switch v.(type) {
		case float64, float32, int, int64, int32:
			return true
		}
		return false
	})
}

// IsBool accepts bodies where the path selects a boolean.
func (s Selector) IsBool() Func {
	return s.is(func(v interface{}) bool {
		_, ok := v.(bool)
		return ok
	})
}

// IsArray accepts bodies where the path selects an array.
func (s Selector) IsArray() Func {
	return s.is(func(v interface{}) bool {
		_, ok := v.([]interface{})
		return ok
	})
}

// IsObject accepts bodies where the path selects an object.
func (s Selector) IsObject() Func {
	return s.is(func(v interface{}) bool {
		_, ok := v.(map[string]interface{})
		return ok
	})
}

// Equals accepts bodies where the path selects a value deeply equal to
// want. Numbers are compared as float64, so Equals(1) matches a JSON 1.
func (s Selector) Equals(want interface{}) Func {
	want = normalize(want)
	return s.is(func(v interface{}) bool {
		return reflect.DeepEqual(normalize(v), want)
	})
}

// HasPrefix accepts bodies where the path selects a string starting
// with prefix.
func (s Selector) HasPrefix(prefix string) Func {
	return s.is(func(v interface{}) bool {
		str, ok := v.(string)
		return ok && strings.HasPrefix(str, prefix)
	})
}

// Every accepts bodies where the path selects an array whose elements
// are all accepted by f. An empty array is accepted.
func (s Selector) Every(f Func) Func {
	return s.is(func(v interface{}) bool {
		arr, ok := v.([]interface{})
		if !ok {
			return false
		}
		for _, el := range arr {
			if !f(el) {
				return false
			}
		}
		return true
	})
}

// Some accepts bodies where the path selects an array with at least one
// element accepted by f.
func (s Selector) Some(f Func) Func {
	return s.is(func(v interface{}) bool {
		arr, ok := v.([]interface{})
		if !ok {
			return false
		}
		for _, el := range arr {
			if f(el) {
				return true
			}
		}
		return false
	})
}

func (s Selector) is(check func(interface{}) bool) Func {
	return func(body interface{}) bool {
		v, ok := s.get(body)
		return ok && check(v)
	}
}

// All accepts bodies accepted by every one of fs. All() accepts every
// body.
func All(fs ...Func) Func {
	return func(body interface{}) bool {
		for _, f := range fs {
			if !f(body) {
				return false
			}
		}
		return true
	}
}

// Any accepts bodies accepted by at least one of fs.
func Any(fs ...Func) Func {
	return func(body interface{}) bool {
		for _, f := range fs {
			if f(body) {
				return true
			}
		}
		return false
	}
}

// Not inverts f.
func Not(f Func) Func {
	return func(body interface{}) bool {
		return !f(body)
	}
}

// Always accepts every body.
func Always(_ interface{}) bool {
	return true
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	}
	return v
}
