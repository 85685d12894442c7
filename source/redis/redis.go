//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package redis provides an asset source backed by a shared redis cache.
//
// Each asset is a hash stored at {prefix}{type_name}:{asset_id} with the
// fields "format" and "data".
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

const (
	fieldFormat = "format"
	fieldData   = "data"
)

// Source loads assets from redis.
type Source struct {
	client redis.UniversalClient
	opts   options
}

var _ source.Source = (*Source)(nil)

// NewSource creates a redis source. Either WithURL or WithClient is required.
func NewSource(opts ...Option) (*Source, error) {
	o := options{keyPrefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	client := o.client
	if client == nil {
		var err error
		if client, err = buildClient(o.url); err != nil {
			return nil, err
		}
	}
	return &Source{client: client, opts: o}, nil
}

// Key returns the redis key of an asset.
func (s *Source) Key(t *asset.Type, id string) string {
	return s.opts.keyPrefix + t.Name + ":" + id
}

// AttemptLoad fetches the asset hash. A missing key is not found; a
// connection error or a malformed hash is a failure.
func (s *Source) AttemptLoad(ctx context.Context, t *asset.Type, id string) source.Outcome {
	key := s.Key(t, id)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return source.Failed(fmt.Errorf("redis: get %s: %w", key, err))
	}
	if len(fields) == 0 {
		return source.NotFound()
	}

	format := asset.DataFormat(fields[fieldFormat])
	if !format.Valid() {
		return source.Failed(fmt.Errorf("redis: %s: unknown data format %q", key, format))
	}
	data, ok := fields[fieldData]
	if !ok {
		return source.Failed(fmt.Errorf("redis: %s: %w", key, asset.ErrNoData))
	}
	log.Debugf("redis: loaded %s/%s from %s", t.Name, id, key)
	return source.FromResult(asset.New(t, id, format, []byte(data)))
}

// Save stores the asset, replacing any previous value.
func (s *Source) Save(ctx context.Context, a *asset.Asset) error {
	if !a.HasData() {
		return fmt.Errorf("redis: save %s: %w", a, asset.ErrNoData)
	}
	key := s.Key(a.Type, a.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldFormat, string(a.DataFormat), fieldData, a.Data)
		if s.opts.ttl > 0 {
			pipe.Expire(ctx, key, s.opts.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Source) Close() error {
	return s.client.Close()
}
