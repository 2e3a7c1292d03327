// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Key returns the normalized form of a query key. Keys which normalize
// to the same string name the same query.
//
// A key which is not a slice or an array is wrapped in a one-element
// array before being encoded as JSON. Map keys are encoded in sorted
// order, so equal maps give equal keys.
func Key(key interface{}) (string, error) {
	switch k := key.(type) {
	case nil:
		return "", fmt.Errorf("rqx/query: nil key")
	case rawKey:
		return string(k), nil
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			key = []interface{}{key}
		}
	default:
		key = []interface{}{key}
	}

	b, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("rqx/query: invalid key: %w", err)
	}
	return string(b), nil
}

func mustKey(key interface{}) string {
	k, err := Key(key)
	if err != nil {
		panic(err.Error())
	}
	return k
}
