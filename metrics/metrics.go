// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics instruments an rqx.Engine with Prometheus collectors
// through its event handlers.
package metrics

import (
	"net/http"

	"github.com/gogama/rqx"
	"github.com/gogama/rqx/failure"
	"github.com/gogama/rqx/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds the execution metrics.
type Collectors struct {
	// Executions counts finished executions by method and result, where
	// the result is the classification status of an outcome or the kind
	// of a failure. Methods other than the standard HTTP methods are
	// counted under the method "other".
	Executions *prometheus.CounterVec

	// Failures counts failed executions by kind and transient code.
	Failures *prometheus.CounterVec

	// AttemptTimeouts counts executions aborted by their timeout.
	AttemptTimeouts prometheus.Counter

	// Duration observes execution latency, including any pause, by
	// method as for Executions.
	Duration *prometheus.HistogramVec

	// InFlight is the number of executions in progress.
	InFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg. If reg is
// nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collectors{
		Executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rqx_executions_total",
				Help: "Total number of finished executions",
			},
			[]string{"method", "result"},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rqx_failures_total",
				Help: "Total number of failed executions",
			},
			[]string{"kind", "code"},
		),
		AttemptTimeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rqx_attempt_timeouts_total",
				Help: "Total number of executions aborted by their timeout",
			},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rqx_execution_duration_seconds",
				Help:    "Execution latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "rqx_executions_in_flight",
				Help: "Number of executions in progress",
			},
		),
	}
}

// Install adds handlers updating the collectors to g.
func (c *Collectors) Install(g *rqx.HandlerGroup) {
	g.PushBack(rqx.BeforeExecutionStart, rqx.HandlerFunc(c.start))
	g.PushBack(rqx.AfterAttemptTimeout, rqx.HandlerFunc(c.timeout))
	g.PushBack(rqx.AfterExecutionEnd, rqx.HandlerFunc(c.end))
}

func (c *Collectors) start(_ rqx.Event, _ *request.Execution) {
	c.InFlight.Inc()
}

func (c *Collectors) timeout(_ rqx.Event, _ *request.Execution) {
	c.AttemptTimeouts.Inc()
}

func (c *Collectors) end(_ rqx.Event, e *request.Execution) {
	c.InFlight.Dec()
	method := methodLabel(e.Spec.MethodOrDefault())
	c.Duration.WithLabelValues(method).Observe(e.Duration().Seconds())

	if rec, ok := failure.As(e.Err); ok {
		c.Executions.WithLabelValues(method, string(rec.Kind)).Inc()
		c.Failures.WithLabelValues(string(rec.Kind), rec.Code).Inc()
		return
	}
	c.Executions.WithLabelValues(method, string(e.Result.Status)).Inc()
}

var standardMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

func methodLabel(method string) string {
	if standardMethods[method] {
		return method
	}
	return "other"
}
