// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"
	"io"
)

// BodyBytes converts a caller-supplied body to the bytes stored in
// Spec.Body.
//
// Strings and byte slices are used as is and nil gives no body. Readers
// are drained, and closed if they implement io.Closer. A
// json.RawMessage is used as is, and every other value is encoded as
// JSON.
func BodyBytes(body interface{}) ([]byte, error) {
	b, _, err := bodyBytes(body)
	return b, err
}

// bodyBytes also reports whether b is JSON produced from a structured
// value, in which case the request gets a JSON content type.
func bodyBytes(body interface{}) (b []byte, isJSON bool, err error) {
	switch x := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(x), false, nil
	case []byte:
		return x, false, nil
	case json.RawMessage:
		return x, true, nil
	case io.Reader:
		b, err = io.ReadAll(x)
		if c, ok := x.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return nil, false, err
		}
		return b, false, nil
	}

	b, err = json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("rqx/request: cannot encode body: %w", err)
	}
	return b, true, nil
}
