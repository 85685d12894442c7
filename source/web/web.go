//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package web provides the network asset source.
//
// The source holds an ordered list of registrations. Each registration serves
// a set of asset types, either over HTTP through a URL function or through an
// arbitrary remote source such as an object store. Registrations are tried in
// the order they were added; the first one that finds the asset wins.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/internal/fallback"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

const defaultTimeout = 30 * time.Second

// URLFunc computes the URL of an asset. The asset passed in carries only its
// type and id. Returning an empty string means the registration cannot serve it.
type URLFunc func(a *asset.Asset) string

// StatusError reports an unexpected HTTP status. 404 is never reported as an
// error; it means the asset is not available at that URL.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("web: GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Option configures a Source.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets the HTTP client used by URL registrations.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// It is ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

type registration struct {
	types  map[string]struct{}
	remote source.Source
}

// Source tries its registrations in order. It is safe for concurrent use,
// including registration while loads are in flight.
type Source struct {
	client *http.Client

	mu            sync.RWMutex
	registrations []registration
}

var _ source.Source = (*Source)(nil)

// NewSource creates a network source without registrations.
func NewSource(opts ...Option) *Source {
	o := &options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: o.timeout}
	}
	return &Source{client: client}
}

// AddSource registers an HTTP location for the given asset types.
func (s *Source) AddSource(types []*asset.Type, urlFunc URLFunc) {
	s.AddRemote(types, &httpRemote{client: s.client, urlFunc: urlFunc})
}

// AddRemote registers a remote source for the given asset types.
func (s *Source) AddRemote(types []*asset.Type, remote source.Source) {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t.Name] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations = append(s.registrations, registration{types: set, remote: remote})
}

// Len returns the number of registrations.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registrations)
}

// AttemptLoad tries each registration serving t, in registration order.
// When none finds the asset and several failed, the failures are joined
// into a single error.
func (s *Source) AttemptLoad(ctx context.Context, t *asset.Type, id string) source.Outcome {
	s.mu.RLock()
	var attempts []fallback.Attempt[*asset.Asset]
	for _, r := range s.registrations {
		if _, ok := r.types[t.Name]; !ok {
			continue
		}
		remote := r.remote
		attempts = append(attempts, func(ctx context.Context) (*asset.Asset, bool, error) {
			a, err := remote.AttemptLoad(ctx, t, id).Result()
			return a, a != nil, err
		})
	}
	s.mu.RUnlock()

	a, found, errs := fallback.First(ctx, attempts...)
	switch {
	case found:
		return source.Found(a)
	case len(errs) == 1:
		return source.Failed(errs[0])
	case len(errs) > 1:
		return source.Failed(errors.Join(errs...))
	default:
		return source.NotFound()
	}
}

type httpRemote struct {
	client  *http.Client
	urlFunc URLFunc
}

func (r *httpRemote) AttemptLoad(ctx context.Context, t *asset.Type, id string) source.Outcome {
	identity, err := asset.New(t, id, "", nil)
	if err != nil {
		return source.Failed(err)
	}
	url := r.urlFunc(identity)
	if url == "" {
		return source.NotFound()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return source.Failed(fmt.Errorf("web: build request for %s: %w", identity, err))
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return source.Failed(fmt.Errorf("web: GET %s: %w", url, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debugf("web: %s not found at %s", identity, url)
		return source.NotFound()
	case resp.StatusCode/100 != 2:
		return source.Failed(&StatusError{URL: url, StatusCode: resp.StatusCode})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return source.Failed(fmt.Errorf("web: read %s: %w", url, err))
	}
	log.Debugf("web: fetched %s from %s (%d bytes)", identity, url, len(data))
	return source.FromResult(asset.New(t, id, t.RuntimeFormat, data))
}
