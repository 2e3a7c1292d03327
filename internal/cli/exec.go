// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gogama/rqx"
	"github.com/gogama/rqx/internal/config"
	"github.com/gogama/rqx/metrics"
	"github.com/gogama/rqx/query"
	"github.com/gogama/rqx/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	execKey   string
	execWatch time.Duration
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Fetch the configured requests and print their states",
	Long: `exec fetches every request in the config file, or only the one named by
--key, and prints one JSON line per query state. A key may be given
either normalized or, for plain string keys, as written in the config.

With --watch, exec keeps running and refetches the requests marked
refetchOnWindowFocus at the given interval until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVar(&execKey, "key", "", "fetch only the request with this key")
	execCmd.Flags().DurationVar(&execWatch, "watch", 0, "refetch interval; zero means fetch once")
}

type job struct {
	key  interface{}
	spec *request.Spec
	opts query.Options
}

func runExec(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	jobs, err := compile(cfg, execKey)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	engine := &rqx.Engine{Handlers: &rqx.HandlerGroup{}, Logger: logger}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics.New(reg).Install(engine.Handlers)
		if cfg.Metrics.Addr != "" {
			shutdown := serveMetrics(cfg.Metrics.Addr, reg, logger)
			defer shutdown()
		}
	}
	defer engine.CloseIdleConnections()

	client := &query.Client{Executor: engine, Logger: logger}
	enc := json.NewEncoder(cmd.OutOrStdout())

	for _, j := range jobs {
		st := client.Fetch(ctx, j.key, j.spec, j.opts)
		if err = enc.Encode(st); err != nil {
			return errors.Wrap(err, "write state")
		}
	}

	if execWatch <= 0 {
		return nil
	}

	ticker := time.NewTicker(execWatch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return nil
		}
		for _, st := range client.Focus(ctx) {
			if err = enc.Encode(st); err != nil {
				return errors.Wrap(err, "write state")
			}
		}
	}
}

func compile(cfg *config.Config, key string) ([]job, error) {
	jobs := make([]job, 0, len(cfg.Requests))
	for i := range cfg.Requests {
		r := &cfg.Requests[i]
		if key != "" && key != r.KeyString() && !rawKeyIs(r.Key, key) {
			continue
		}
		s, err := r.Spec()
		if err != nil {
			return nil, err
		}
		opts, err := r.QueryOptions()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job{key: r.Key, spec: s, opts: opts})
	}
	if key != "" && len(jobs) == 0 {
		return nil, errors.Errorf("no request with key %s", key)
	}
	return jobs, nil
}

func rawKeyIs(k interface{}, s string) bool {
	str, ok := k.(string)
	return ok && str == s
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
