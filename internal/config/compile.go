// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gogama/rqx/flavor"
	"github.com/gogama/rqx/predicate"
	"github.com/gogama/rqx/query"
	"github.com/gogama/rqx/request"
)

// KeyString returns the normalized query key of r, or a Go-syntax
// representation of the raw key if it cannot be normalized.
func (r *RequestConfig) KeyString() string {
	k, err := query.Key(r.Key)
	if err != nil {
		return fmt.Sprintf("%#v", r.Key)
	}
	return k
}

// Spec compiles r into a request spec.
func (r *RequestConfig) Spec() (*request.Spec, error) {
	s, err := request.NewSpec(r.Method, r.URL, r.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", r.KeyString())
	}
	for name, value := range r.Headers {
		s.Header.Set(name, value)
	}
	if s.PredicatesSuccess, err = compileList(r.PredicatesSuccess); err != nil {
		return nil, errors.Wrapf(err, "request %s: predicatesSuccess", r.KeyString())
	}
	if s.PredicatesError, err = compileList(r.PredicatesError); err != nil {
		return nil, errors.Wrapf(err, "request %s: predicatesError", r.KeyString())
	}
	if err = s.Mode.UnmarshalText([]byte(r.Mode)); err != nil {
		return nil, errors.Wrapf(err, "request %s", r.KeyString())
	}
	if s.TestFlavor, err = flavor.Parse(r.TestFlavor); err != nil {
		return nil, errors.Wrapf(err, "request %s", r.KeyString())
	}
	if r.InitialDataHTTPCode != nil {
		s.InitialDataHTTPCode = *r.InitialDataHTTPCode
	}
	if r.PauseMsc < 0 || r.TimeoutMsc < 0 {
		return nil, errors.Errorf("request %s: negative pauseMsc or timeoutMsc", r.KeyString())
	}
	s.Pause = time.Duration(r.PauseMsc) * time.Millisecond
	s.Timeout = time.Duration(r.TimeoutMsc) * time.Millisecond
	if err = s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "request %s", r.KeyString())
	}
	return s, nil
}

// QueryOptions compiles the options of r.
func (r *RequestConfig) QueryOptions() (query.Options, error) {
	o := r.Options
	if o.Retry < 0 || o.StaleTimeMsc < 0 {
		return query.Options{}, errors.Errorf("request %s: negative retry or staleTimeMsc", r.KeyString())
	}
	opts := query.Options{
		Disabled:             o.Enabled != nil && !*o.Enabled,
		Retry:                o.Retry,
		RefetchOnWindowFocus: o.RefetchOnWindowFocus,
		StaleTime:            time.Duration(o.StaleTimeMsc) * time.Millisecond,
	}
	if r.InitialData != nil {
		data, err := asJSON(r.InitialData)
		if err != nil {
			return query.Options{}, errors.Wrapf(err, "request %s: initialData", r.KeyString())
		}
		opts.InitialData = data
	}
	return opts, nil
}

func compileList(pcs []PredicateConfig) (predicate.List, error) {
	if len(pcs) == 0 {
		return nil, nil
	}
	l := make(predicate.List, 0, len(pcs))
	for i := range pcs {
		d, err := pcs[i].compile()
		if err != nil {
			return nil, err
		}
		l = append(l, d)
	}
	return l, l.Validate()
}

func (pc *PredicateConfig) compile() (predicate.Descriptor, error) {
	d := predicate.Descriptor{ID: pc.ID, HTTPCode: predicate.AnyCode}
	if pc.HTTPCode != nil {
		d.HTTPCode = *pc.HTTPCode
	}

	sel := predicate.Path(pc.Path)
	var fs []predicate.Func
	if pc.Type != "" {
		f, err := typeCheck(sel, pc.Type)
		if err != nil {
			return d, errors.Wrapf(err, "predicate %q", pc.ID)
		}
		fs = append(fs, f)
	}
	if pc.Equals != nil {
		want, err := asJSON(pc.Equals)
		if err != nil {
			return d, errors.Wrapf(err, "predicate %q: equals", pc.ID)
		}
		fs = append(fs, sel.Equals(want))
	}
	if pc.Every != nil {
		typ := pc.Every.Type
		if typ == "" {
			typ = "exists"
		}
		f, err := typeCheck(predicate.Path(pc.Every.Path), typ)
		if err != nil {
			return d, errors.Wrapf(err, "predicate %q: every", pc.ID)
		}
		fs = append(fs, sel.Every(f))
	}
	switch {
	case len(fs) == 0 && pc.Path != "":
		d.Predicate = sel.Exists()
	case len(fs) == 0:
		d.Predicate = predicate.Always
	case len(fs) == 1:
		d.Predicate = fs[0]
	default:
		d.Predicate = predicate.All(fs...)
	}
	return d, nil
}

func typeCheck(sel predicate.Selector, typ string) (predicate.Func, error) {
	switch typ {
	case "string":
		return sel.IsString(), nil
	case "number":
		return sel.IsNumber(), nil
	case "bool", "boolean":
		return sel.IsBool(), nil
	case "array":
		return sel.IsArray(), nil
	case "object":
		return sel.IsObject(), nil
	case "exists":
		return sel.Exists(), nil
	default:
		return nil, errors.Errorf("unknown type %q", typ)
	}
}

// asJSON converts a YAML-decoded value to the shapes a JSON decoder
// produces, so numbers become float64.
func asJSON(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
