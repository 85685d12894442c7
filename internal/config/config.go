//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the YAML configuration of the asset daemon.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/source/web"
)

// allTypes selects every asset type when used as the types value.
const allTypes = "*"

// Config is the top-level configuration of the daemon.
type Config struct {
	// LocalDir is the local cache directory. Empty disables the local cache.
	LocalDir string `yaml:"local_dir"`

	// Redis is an optional shared cache, tried before WebSources.
	Redis *Redis `yaml:"redis"`

	// Postgres is an optional asset table, tried after Redis.
	Postgres *Postgres `yaml:"postgres"`

	// WebSources are HTTP locations, tried in order.
	WebSources []WebSource `yaml:"web_sources"`

	// COS is an optional object-store location, tried after WebSources.
	COS *COS `yaml:"cos"`

	// Defaults overrides default asset ids, keyed by asset type name.
	Defaults map[string]string `yaml:"defaults"`

	Telemetry Telemetry `yaml:"telemetry"`
}

// WebSource is one HTTP location.
type WebSource struct {
	Types TypeList `yaml:"types"`

	// URL is a template. {id}, {type} and {format} are replaced by the asset
	// id, the type name and the runtime format of the type.
	URL string `yaml:"url"`
}

// Redis is a redis server caching assets.
type Redis struct {
	URL       string        `yaml:"url"`
	KeyPrefix string        `yaml:"key_prefix"`
	Types     TypeList      `yaml:"types"`
	TTL       time.Duration `yaml:"ttl"`
}

// Postgres is a PostgreSQL table holding assets.
type Postgres struct {
	ConnString string   `yaml:"conn_string"`
	Table      string   `yaml:"table"`
	Types      TypeList `yaml:"types"`
	// CreateTable creates the table at startup when it does not exist.
	CreateTable bool `yaml:"create_table"`
}

// COS is a Tencent COS bucket holding assets.
type COS struct {
	BucketURL string        `yaml:"bucket_url"`
	Prefix    string        `yaml:"prefix"`
	Types     TypeList      `yaml:"types"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Telemetry configures the OTLP exporters. An empty endpoint disables export.
type Telemetry struct {
	Endpoint string `yaml:"endpoint"`
	// Protocol is "grpc" or "http".
	Protocol string `yaml:"protocol"`
}

// TypeList is a list of asset types. In YAML it is either a sequence of type
// names, a single name, or "*" for every type.
type TypeList []*asset.Type

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *TypeList) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if value.Kind == yaml.ScalarNode {
		if value.Value == allTypes {
			*l = asset.Types()
			return nil
		}
		names = []string{value.Value}
	} else if err := value.Decode(&names); err != nil {
		return err
	}

	types := make(TypeList, 0, len(names))
	for _, name := range names {
		t, ok := asset.TypeByName(name)
		if !ok {
			return fmt.Errorf("line %d: unknown asset type %q", value.Line, name)
		}
		types = append(types, t)
	}
	*l = types
	return nil
}

// Load reads a configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for i, ws := range c.WebSources {
		if ws.URL == "" {
			return fmt.Errorf("web_sources[%d]: url is required", i)
		}
		if len(ws.Types) == 0 {
			return fmt.Errorf("web_sources[%d]: types is required", i)
		}
	}
	if c.Redis != nil {
		if c.Redis.URL == "" {
			return fmt.Errorf("redis: url is required")
		}
		if len(c.Redis.Types) == 0 {
			return fmt.Errorf("redis: types is required")
		}
	}
	if c.Postgres != nil {
		if c.Postgres.ConnString == "" {
			return fmt.Errorf("postgres: conn_string is required")
		}
		if len(c.Postgres.Types) == 0 {
			return fmt.Errorf("postgres: types is required")
		}
	}
	if c.COS != nil {
		if c.COS.BucketURL == "" {
			return fmt.Errorf("cos: bucket_url is required")
		}
		if len(c.COS.Types) == 0 {
			return fmt.Errorf("cos: types is required")
		}
	}
	for name := range c.Defaults {
		if _, ok := asset.TypeByName(name); !ok {
			return fmt.Errorf("defaults: unknown asset type %q", name)
		}
	}
	switch c.Telemetry.Protocol {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("telemetry: unknown protocol %q", c.Telemetry.Protocol)
	}
	return nil
}

// URLFunc expands the URL template of the web source for an asset.
func (w WebSource) URLFunc() web.URLFunc {
	return func(a *asset.Asset) string {
		return strings.NewReplacer(
			"{id}", url.PathEscape(a.ID),
			"{type}", a.Type.Name,
			"{format}", string(a.Type.RuntimeFormat),
		).Replace(w.URL)
	}
}
