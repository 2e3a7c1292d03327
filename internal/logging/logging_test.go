// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for name, expected := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, expected, ParseLevel(name))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, slog.LevelInfo, "JSON")
		l.Debug("hidden")
		l.Info("shown", "url", "http://x")
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "http://x", rec["url"])
	})
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, slog.LevelDebug, "text")
		l.Debug("resolved url", "url", "http://x")
		out := buf.String()
		assert.Contains(t, out, "resolved url")
		assert.Contains(t, out, "url=http://x")
		assert.NotContains(t, out, "\x1b[")
	})
	t.Run("level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, slog.LevelWarn, "")
		l.Info("nope")
		assert.Empty(t, buf.String())
		l.Warn("yes")
		assert.Contains(t, buf.String(), "yes")
	})
}
