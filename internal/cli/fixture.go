// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/gogama/rqx/fixture"
	"github.com/spf13/cobra"
)

var fixtureAddr string

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve the test backend",
	Long: `fixture serves a small HTTP backend with routes returning JSON lists,
documented errors, slow responses, plain text, and arbitrary status codes.`,
	Args: cobra.NoArgs,
	RunE: runFixture,
}

func init() {
	fixtureCmd.Flags().StringVar(&fixtureAddr, "addr", ":22124", "listen address")
}

func runFixture(cmd *cobra.Command, _ []string) error {
	if !isDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := newLogger(cmd.ErrOrStderr(), nil)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if err := fixture.Serve(ctx, fixtureAddr, logger); err != nil {
		return errors.Wrapf(err, "serve fixture on %s", fixtureAddr)
	}
	return nil
}
