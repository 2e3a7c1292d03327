// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Text is the body served by the /text endpoint.
const Text = "plain text, not json"

// MaxSlow caps the sleep requested from the /slow endpoint.
const MaxSlow = 30 * time.Second

// Values returns the body served by the /values endpoint.
func Values() gin.H {
	return gin.H{
		"values": []gin.H{
			{"val": 1},
			{"val": 2},
		},
	}
}

// NewRouter returns a Gin engine serving the fixture endpoints.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/values", values)
	r.Any("/error", unprocessable)
	r.GET("/slow", slow)
	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, Text)
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.Any("/status/:code", status)
	r.Any("/echo", echo)

	return r
}

func values(c *gin.Context) {
	c.JSON(http.StatusOK, Values())
}

func unprocessable(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": gin.H{
			"code":    "422",
			"message": "unprocessable",
		},
	})
}

func slow(c *gin.Context) {
	ms, err := strconv.Atoi(c.DefaultQuery("ms", "0"))
	if err != nil || ms < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ms must be a non-negative integer"})
		return
	}

	d := time.Duration(ms) * time.Millisecond
	if d > MaxSlow {
		d = MaxSlow
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		values(c)
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

func status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 200 || code > 599 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be an HTTP status between 200 and 599"})
		return
	}

	c.JSON(code, gin.H{"status": code})
}

func echo(c *gin.Context) {
	var body interface{}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	header := gin.H{}
	for k := range c.Request.Header {
		header[k] = c.Request.Header.Get(k)
	}

	c.JSON(http.StatusOK, gin.H{
		"method": c.Request.Method,
		"header": header,
		"body":   body,
	})
}

// Serve listens on addr and serves the fixture router until ctx is
// done, then drains in-flight requests for up to five seconds.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("fixture server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("fixture server forced shutdown", "error", err)
		return err
	}

	logger.Info("fixture server drained gracefully")
	return nil
}
