// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the rqx command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogama/rqx/internal/config"
	"github.com/gogama/rqx/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "rqx",
	Short: "Execute HTTP requests and classify their responses",
	Long: `rqx executes declared HTTP requests, classifies each response against
ordered success and error predicates, and prints the resulting query state.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(execCmd, fixtureCmd)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, format := slog.LevelInfo, "text"
	if cfg != nil {
		level, format = logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format
	}
	if isDebug {
		level = slog.LevelDebug
	}
	return logging.New(w, level, format)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
