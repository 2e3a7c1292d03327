// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/gogama/rqx/query"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file. Environment variables are
// expanded in the file content, after loading a .env file from the
// working directory if one exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return Parse(data)
}

// Parse decodes and checks YAML configuration content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	keys := make(map[string]bool, len(cfg.Requests))
	for i := range cfg.Requests {
		r := &cfg.Requests[i]
		if r.URL == "" {
			return nil, errors.Errorf("request %d: url is required", i)
		}
		if r.Key == nil {
			r.Key = r.URL
		}
		k, err := query.Key(r.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "request %d", i)
		}
		if keys[k] {
			return nil, errors.Errorf("request %d: duplicate key %s", i, k)
		}
		keys[k] = true
	}

	return &cfg, nil
}
