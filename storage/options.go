//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package storage

import (
	"net/http"

	"trpc.group/trpc-go/trpc-asset-go/source"
	"trpc.group/trpc-go/trpc-asset-go/source/web"
)

const defaultParallelism = 8

// Option configures a Storage.
type Option func(*options)

type options struct {
	builtin     source.Source
	local       source.Source
	localDir    string
	web         *web.Source
	webOpts     []web.Option
	parallelism int
}

// WithBuiltinSource replaces the bundled source. When src has a
// DefaultIDs() map[string]string method, those ids become the storage defaults.
func WithBuiltinSource(src source.Source) Option {
	return func(o *options) {
		o.builtin = src
	}
}

// WithLocalSource replaces the local cache source.
// It takes precedence over WithLocalDir.
func WithLocalSource(src source.Source) Option {
	return func(o *options) {
		o.local = src
	}
}

// WithLocalDir uses dir as the local cache directory.
// Without it the local source never finds anything.
func WithLocalDir(dir string) Option {
	return func(o *options) {
		o.localDir = dir
	}
}

// WithWebSource replaces the network source. Registrations already made on
// src are kept.
func WithWebSource(src *web.Source) Option {
	return func(o *options) {
		o.web = src
	}
}

// WithHTTPClient sets the HTTP client of the default network source.
// It is ignored when WithWebSource is used.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.webOpts = append(o.webOpts, web.WithHTTPClient(client))
	}
}

// WithParallelism sets how many loads LoadAll runs at once. Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}
