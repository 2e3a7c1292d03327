// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration of the rqx command and
// compiles its declarative requests into specs and query options.
package config

// Config is the top-level configuration.
type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Requests []RequestConfig `yaml:"requests"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // empty = do not serve /metrics
}

// RequestConfig declares one request and the query options it is
// fetched with.
type RequestConfig struct {
	Key                 interface{}       `yaml:"key"` // defaults to url
	URL                 string            `yaml:"url"`
	Method              string            `yaml:"method"`
	Body                interface{}       `yaml:"body"`
	Headers             map[string]string `yaml:"headers"`
	PredicatesSuccess   []PredicateConfig `yaml:"predicatesSuccess"`
	PredicatesError     []PredicateConfig `yaml:"predicatesError"`
	InitialData         interface{}       `yaml:"initialData"`
	InitialDataHTTPCode *int              `yaml:"initialDataHttpCode"` // nil = any code
	TestFlavor          string            `yaml:"testFlavor"`
	PauseMsc            int               `yaml:"pauseMsc"`
	TimeoutMsc          int               `yaml:"timeoutMsc"`
	Mode                string            `yaml:"mode"` // dual, single
	Options             OptionsConfig     `yaml:"options"`
}

// OptionsConfig mirrors query.Options.
type OptionsConfig struct {
	Enabled              *bool `yaml:"enabled"` // nil = true
	Retry                int   `yaml:"retry"`
	RefetchOnWindowFocus bool  `yaml:"refetchOnWindowFocus"`
	StaleTimeMsc         int   `yaml:"staleTimeMsc"`
}

// PredicateConfig declares a predicate descriptor. The checks present
// are combined with a logical AND. A descriptor with no checks accepts
// any body.
type PredicateConfig struct {
	ID       string       `yaml:"id"`
	HTTPCode *int         `yaml:"httpCode"` // nil = any code
	Path     string       `yaml:"path"`
	Type     string       `yaml:"type"` // string, number, bool, array, object, exists
	Equals   interface{}  `yaml:"equals"`
	Every    *EveryConfig `yaml:"every"`
}

// EveryConfig requires every element of the array at the enclosing
// predicate's path to have a value of Type at Path.
type EveryConfig struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}
