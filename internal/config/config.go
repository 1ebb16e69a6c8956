// Copyright 2024 The Tulip Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads tulip settings from a config file, the environment
// and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyIDProperty        = "record.id_property"
	KeyIgnoredPredicates = "record.ignored_predicates"
	KeyMaxDepth          = "shapes.max_depth"
	KeyLoadFormat        = "load.format"
	KeyDumpFormat        = "dump.format"
	KeyDumpCompact       = "dump.compact"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// for example TULIP_RECORD_ID_PROPERTY.
const EnvPrefix = "TULIP"

// DefaultIDProperty is the predicate holding record identifiers.
const DefaultIDProperty = "https://concepts.datalad.org/s/things/v1/id"

// Config defines the behavior of shape loading and record mapping.
type Config struct {
	IDProperty        string
	IgnoredPredicates []string
	MaxDepth          int
	LoadFormat        string
	DumpFormat        string
	DumpCompact       bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyIDProperty, DefaultIDProperty)
	v.SetDefault(KeyIgnoredPredicates, []string{})
	v.SetDefault(KeyMaxDepth, 64)
	v.SetDefault(KeyLoadFormat, "")
	v.SetDefault(KeyDumpFormat, "nquads")
	v.SetDefault(KeyDumpCompact, false)
}

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the config file at path into v. An empty path searches for
// tulip.yaml in the working directory and $HOME/.tulip; a missing file is
// not an error in that case.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file %q: %w", path, err)
		}
		return nil
	}
	v.SetConfigName("tulip")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.tulip")
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		IDProperty:        v.GetString(KeyIDProperty),
		IgnoredPredicates: v.GetStringSlice(KeyIgnoredPredicates),
		MaxDepth:          v.GetInt(KeyMaxDepth),
		LoadFormat:        v.GetString(KeyLoadFormat),
		DumpFormat:        v.GetString(KeyDumpFormat),
		DumpCompact:       v.GetBool(KeyDumpCompact),
	}
	if cfg.IDProperty == "" {
		return nil, fmt.Errorf("%s must be set", KeyIDProperty)
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyMaxDepth, cfg.MaxDepth)
	}
	return cfg, nil
}
