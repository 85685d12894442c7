//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package storage resolves assets against an ordered list of sources.
//
// A Storage consults, in this order, the assets bundled with the binary, the
// local cache and the network. The first source that has the asset wins and
// later sources are not consulted. When no source has it, Load returns
// (nil, nil) if every source answered cleanly, and a *LoadError listing every
// failure otherwise.
//
// Example:
//
//	store, err := storage.New(storage.WithLocalDir("/var/cache/assets"))
//	if err != nil {
//		return err
//	}
//	store.AddWebSource([]*asset.Type{asset.TypeSound}, func(a *asset.Asset) string {
//		return "https://assets.example.com/" + a.ID + ".wav"
//	})
//	sound, err := store.Load(ctx, asset.TypeSound, "83c36d806dc92327b9e7049a565c6bff")
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/internal/fallback"
	itelemetry "trpc.group/trpc-go/trpc-asset-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/source"
	"trpc.group/trpc-go/trpc-asset-go/source/builtin"
	"trpc.group/trpc-go/trpc-asset-go/source/local"
	"trpc.group/trpc-go/trpc-asset-go/source/web"
	"trpc.group/trpc-go/trpc-asset-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-asset-go/telemetry/trace"
)

// Source names used in logs and telemetry.
const (
	SourceBuiltin = "builtin"
	SourceLocal   = "local"
	SourceWeb     = "web"
)

// Outcome labels of a whole load.
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
)

type namedSource struct {
	name string
	src  source.Source
}

// defaultsProvider is implemented by bundled sources that ship default assets.
type defaultsProvider interface {
	DefaultIDs() map[string]string
}

// Storage is the entry point for loading assets. It is safe for concurrent use.
type Storage struct {
	web *web.Source
	// sources is fixed at construction, most local first.
	sources     []namedSource
	parallelism int

	mu         sync.RWMutex
	defaultIDs map[string]string
}

// New creates a storage with the bundled, local and network sources and
// registers the bundled default assets as the default ids of their types.
func New(opts ...Option) (*Storage, error) {
	o := &options{parallelism: defaultParallelism}
	for _, opt := range opts {
		opt(o)
	}

	if o.builtin == nil {
		b, err := builtin.NewSource()
		if err != nil {
			return nil, fmt.Errorf("storage: create builtin source: %w", err)
		}
		o.builtin = b
	}
	if o.local == nil {
		o.local = local.NewSource(o.localDir)
	}
	if o.web == nil {
		o.web = web.NewSource(o.webOpts...)
	}

	s := &Storage{
		web: o.web,
		sources: []namedSource{
			{name: SourceBuiltin, src: o.builtin},
			{name: SourceLocal, src: o.local},
			{name: SourceWeb, src: o.web},
		},
		parallelism: o.parallelism,
		defaultIDs:  make(map[string]string),
	}
	if p, ok := o.builtin.(defaultsProvider); ok {
		for typeName, id := range p.DefaultIDs() {
			s.defaultIDs[typeName] = id
		}
	}
	return s, nil
}

// AddWebSource registers an HTTP location for the given types. Network
// locations are tried in registration order, always after the bundled and
// local sources.
func (s *Storage) AddWebSource(types []*asset.Type, urlFunc web.URLFunc) {
	s.web.AddSource(types, urlFunc)
}

// AddRemoteSource registers a non-HTTP network source, such as an object
// store, for the given types. It shares the ordering of AddWebSource.
func (s *Storage) AddRemoteSource(types []*asset.Type, src source.Source) {
	s.web.AddRemote(types, src)
}

// DefaultAssetID returns the default asset id of a type, if any.
//
// Load never substitutes the default by itself; callers decide when a
// missing asset should be replaced.
func (s *Storage) DefaultAssetID(t *asset.Type) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.defaultIDs[t.Name]
	return id, ok
}

// SetDefaultAssetID sets the default asset id of a type. The id is not
// checked against any source.
func (s *Storage) SetDefaultAssetID(t *asset.Type, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultIDs[t.Name] = id
}

// Load fetches an asset by type and id.
//
// Returns:
//   - the asset and a nil error when a source found it;
//   - nil and a nil error when every source reported it missing;
//   - nil and a *LoadError when it was not found and at least one source
//     failed. An HTTP 404 is not a failure, an HTTP 403 is.
//
// Sources are tried one after another and each gets a single attempt.
// Failures of sources tried before a successful one are dropped.
func (s *Storage) Load(ctx context.Context, t *asset.Type, id string) (*asset.Asset, error) {
	if t == nil {
		return nil, ErrNilType
	}

	loadID := uuid.NewString()
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewLoadSpanName(t.Name),
		oteltrace.WithAttributes(
			itelemetry.KeyAssetType.String(t.Name),
			itelemetry.KeyAssetID.String(id),
			itelemetry.KeyLoadID.String(loadID),
		))
	defer span.End()
	start := time.Now()

	attempts := make([]fallback.Attempt[*asset.Asset], len(s.sources))
	for i, ns := range s.sources {
		attempts[i] = s.attempt(ns, t, id, loadID)
	}
	a, found, errs := fallback.First(ctx, attempts...)

	var (
		outcome string
		err     error
	)
	switch {
	case found:
		outcome = outcomeFound
	case len(errs) == 0:
		outcome = outcomeNotFound
		log.Debugf("storage[%s]: %s/%s not found in any source", loadID, t.Name, id)
	default:
		outcome = outcomeFailed
		err = &LoadError{Type: t, ID: id, Errors: errs}
		log.Warnf("storage[%s]: %v", loadID, err)
		span.SetAttributes(itelemetry.KeyErrorCount.Int(len(errs)))
	}
	itelemetry.TraceOutcome(span, outcome, err)
	recordLoad(ctx, t, outcome, time.Since(start))
	return a, err
}

func (s *Storage) attempt(ns namedSource, t *asset.Type, id, loadID string) fallback.Attempt[*asset.Asset] {
	return func(ctx context.Context) (*asset.Asset, bool, error) {
		ctx, span := trace.Tracer.Start(ctx, itelemetry.NewAttemptSpanName(ns.name),
			oteltrace.WithAttributes(itelemetry.KeySource.String(ns.name)))
		defer span.End()

		out := ns.src.AttemptLoad(ctx, t, id)
		log.Debugf("storage[%s]: %s/%s from %s: %s", loadID, t.Name, id, ns.name, out.Status)
		itelemetry.TraceOutcome(span, out.Status.String(), out.Err)

		a, err := out.Result()
		return a, a != nil, err
	}
}

func recordLoad(ctx context.Context, t *asset.Type, outcome string, elapsed time.Duration) {
	attrs := otelmetric.WithAttributes(
		itelemetry.KeyAssetType.String(t.Name),
		itelemetry.KeyOutcome.String(outcome),
	)
	if counter, err := metric.Meter.Int64Counter(itelemetry.MetricNameLoads,
		otelmetric.WithDescription("Number of asset loads by outcome.")); err == nil {
		counter.Add(ctx, 1, attrs)
	}
	if hist, err := metric.Meter.Float64Histogram(itelemetry.MetricNameLoadDuration,
		otelmetric.WithDescription("Duration of asset loads."),
		otelmetric.WithUnit("s")); err == nil {
		hist.Record(ctx, elapsed.Seconds(), attrs)
	}
}
