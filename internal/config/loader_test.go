// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logging:
  level: debug
metrics:
  enabled: true
  addr: ":9090"
requests:
  - url: ${RQX_TEST_BASE}/values
    predicatesSuccess:
      - id: list
        httpCode: 200
        path: values
        type: array
        every: {path: val, type: number}
    predicatesError:
      - id: err
        path: error.code
        type: string
    initialData:
      values: [{val: 1}]
    initialDataHttpCode: 200
    options:
      retry: 2
      staleTimeMsc: 1500
  - key: [todo, {page: 1}]
    url: http://localhost/text
    method: post
    body: {name: x}
    headers:
      X-Trace: abc
    mode: single
    testFlavor: f3
    pauseMsc: 10
    timeoutMsc: 250
    options:
      enabled: false
      refetchOnWindowFocus: true
`

func TestLoad(t *testing.T) {
	t.Setenv("RQX_TEST_BASE", "http://127.0.0.1:22124")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	require.Len(t, cfg.Requests, 2)
	assert.Equal(t, "http://127.0.0.1:22124/values", cfg.Requests[0].URL)
	assert.Equal(t, cfg.Requests[0].URL, cfg.Requests[0].Key)
	assert.Equal(t, `["http://127.0.0.1:22124/values"]`, cfg.Requests[0].KeyString())
	assert.Equal(t, `["todo",{"page":1}]`, cfg.Requests[1].KeyString())
	require.NotNil(t, cfg.Requests[1].Options.Enabled)
	assert.False(t, *cfg.Requests[1].Options.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		err  string
	}{
		{"syntax", "requests: [", "parse config"},
		{"no url", "requests:\n  - method: GET\n", "url is required"},
		{"bad key", "requests:\n  - url: http://a\n    key: {1: x}\n", "invalid key"},
		{"duplicate key", "requests:\n  - url: http://a\n  - url: http://b\n    key: http://a\n", "duplicate key"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Parse([]byte(testCase.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.err)
		})
	}

	t.Run("empty", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Empty(t, cfg.Requests)
	})
}
