//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package cos provides a Tencent Cloud Object Storage (COS) asset source.
//
// Objects are named
//
//	{prefix}{type_name}/{asset_id}.{runtime_format}
//
// Authentication:
// The source requires COS credentials which can be provided via:
// - Environment variables: COS_SECRETID and COS_SECRETKEY (recommended)
// - Option functions: WithSecretID() and WithSecretKey()
//
// Example:
//
//	src, err := cos.NewSource("https://bucket.cos.region.myqcloud.com", cos.WithPrefix("assets"))
//	if err != nil {
//		return err
//	}
//	store.AddRemoteSource([]*asset.Type{asset.TypeSound}, src)
package cos

import (
	"bytes"
	"context"
	"fmt"
	"io"

	cos "github.com/tencentyun/cos-go-sdk-v5"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

// Source loads assets from a COS bucket.
type Source struct {
	cosClient client
	prefix    string
}

var _ source.Source = (*Source)(nil)

// NewSource creates a COS source for the bucket at bucketURL.
// bucketURL may be empty when WithClient is used.
func NewSource(bucketURL string, opts ...Option) (*Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c, err := buildClient(bucketURL, o)
	if err != nil {
		return nil, err
	}
	return &Source{cosClient: c, prefix: o.prefix}, nil
}

// ObjectName returns the object name under which the asset is stored.
func (s *Source) ObjectName(t *asset.Type, id string) string {
	return fmt.Sprintf("%s%s/%s.%s", s.prefix, t.Name, id, t.RuntimeFormat)
}

// AttemptLoad downloads the asset. A missing object is NotFound; any other
// COS error is Failed.
func (s *Source) AttemptLoad(ctx context.Context, t *asset.Type, id string) source.Outcome {
	name := s.ObjectName(t, id)
	body, _, err := s.cosClient.GetObject(ctx, name)
	if err != nil {
		if cos.IsNotFoundError(err) {
			log.Debugf("cos: object %s not found", name)
			return source.NotFound()
		}
		return source.Failed(fmt.Errorf("cos: download %s: %w", name, err))
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return source.Failed(fmt.Errorf("cos: read %s: %w", name, err))
	}
	return source.FromResult(asset.New(t, id, t.RuntimeFormat, data))
}

// Save uploads the asset payload to the bucket.
func (s *Source) Save(ctx context.Context, a *asset.Asset) error {
	if !a.HasData() {
		return fmt.Errorf("cos: save %s: %w", a, asset.ErrNoData)
	}
	if a.DataFormat != a.Type.RuntimeFormat {
		return fmt.Errorf("cos: save %s: format %q, want %q", a, a.DataFormat, a.Type.RuntimeFormat)
	}
	name := s.ObjectName(a.Type, a.ID)
	if err := s.cosClient.PutObject(ctx, name, bytes.NewReader(a.Data), a.Type.ContentType); err != nil {
		return fmt.Errorf("cos: upload %s: %w", name, err)
	}
	return nil
}
