// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flavor

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// A Flavor selects a fault injection scenario.
type Flavor int

const (
	// Undef applies no fault. It is the zero value.
	Undef Flavor = iota
	// CorruptPath appends PathSuffix to the URL path, which should turn
	// a valid route into a 404.
	CorruptPath
	// CorruptHost replaces the URL hostname with Host, which should not
	// resolve and thus produce a transport failure.
	CorruptHost
	// ForceErrorAfterPause makes the engine fail with a forced error
	// once the spec's pause has elapsed.
	ForceErrorAfterPause
	flavorSentinel
)

const (
	// PathSuffix is appended to the path by CorruptPath.
	PathSuffix = "err"
	// Host replaces the hostname under CorruptHost.
	Host = "err.nn"
)

var flavorNames = []string{
	"undef",
	"corrupt_path",
	"corrupt_host",
	"force_error_after_pause",
}

// Short names used by older configurations.
var shortNames = map[string]Flavor{
	"f1": CorruptPath,
	"f2": CorruptHost,
	"f3": ForceErrorAfterPause,
}

// String returns the name of the flavor.
func (f Flavor) String() string {
	if f < 0 || f >= flavorSentinel {
		return fmt.Sprintf("flavor(%d)", int(f))
	}
	return flavorNames[f]
}

// Parse returns the flavor named by s. Both the long names returned by
// String and the short names f1, f2, and f3 are accepted, ignoring
// case. The empty string parses as Undef.
func Parse(s string) (Flavor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Undef, nil
	}
	if f, ok := shortNames[s]; ok {
		return f, nil
	}
	for i, name := range flavorNames {
		if s == name {
			return Flavor(i), nil
		}
	}
	return Undef, fmt.Errorf("rqx/flavor: unknown flavor %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Flavor) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flavor) UnmarshalText(b []byte) error {
	g, err := Parse(string(b))
	if err != nil {
		return err
	}
	*f = g
	return nil
}

// Forced reports whether f injects a synthetic failure instead of
// altering the URL.
func (f Flavor) Forced() bool {
	return f == ForceErrorAfterPause
}

// Apply returns the URL to request under flavor f. The input URL is
// never modified; when f alters the URL, a copy is returned.
func Apply(u *url.URL, f Flavor) *url.URL {
	switch f {
	case CorruptPath:
		u2 := *u
		u2.Path = u.Path + PathSuffix
		if u.RawPath != "" {
			u2.RawPath = u.RawPath + PathSuffix
		}
		return &u2
	case CorruptHost:
		u2 := *u
		if port := u.Port(); port != "" {
			u2.Host = net.JoinHostPort(Host, port)
		} else {
			u2.Host = Host
		}
		return &u2
	default:
		return u
	}
}
