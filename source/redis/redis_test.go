//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Source) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := NewSource(WithURL("redis://" + mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestSaveAndLoad(t *testing.T) {
	_, s := setupTestRedis(t)
	ctx := context.Background()

	a, err := asset.New(asset.TypeSound, "meow", asset.FormatWAV, []byte("RIFF\x00\x01"))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, a))

	out := s.AttemptLoad(ctx, asset.TypeSound, "meow")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, asset.FormatWAV, out.Asset.DataFormat)
	assert.Equal(t, a.Data, out.Asset.Data)
	assert.Equal(t, asset.TypeSound, out.Asset.Type)
}

func TestAttemptLoadNotFound(t *testing.T) {
	_, s := setupTestRedis(t)
	out := s.AttemptLoad(context.Background(), asset.TypeSound, "missing")
	assert.Equal(t, source.StatusNotFound, out.Status)
}

func TestAttemptLoadMalformed(t *testing.T) {
	mr, s := setupTestRedis(t)
	mr.HSet(s.Key(asset.TypeSound, "odd"), fieldFormat, "gif", fieldData, "x")
	mr.HSet(s.Key(asset.TypeSound, "empty"), fieldFormat, "wav")

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "odd")
	require.Equal(t, source.StatusFailed, out.Status)
	assert.Contains(t, out.Err.Error(), "unknown data format")

	out = s.AttemptLoad(context.Background(), asset.TypeSound, "empty")
	require.Equal(t, source.StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, asset.ErrNoData)
}

func TestAttemptLoadConnectionError(t *testing.T) {
	mr, s := setupTestRedis(t)
	mr.Close()

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "meow")
	assert.Equal(t, source.StatusFailed, out.Status)
}

func TestSaveWithTTLAndPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := NewSource(WithClient(client), WithKeyPrefix("cache:"), WithTTL(time.Minute))
	require.NoError(t, err)

	a, err := asset.New(asset.TypeProject, "p", asset.FormatJSON, []byte("{}"))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), a))

	key := "cache:Project:p"
	assert.Equal(t, key, s.Key(asset.TypeProject, "p"))
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	out := s.AttemptLoad(context.Background(), asset.TypeProject, "p")
	assert.Equal(t, source.StatusNotFound, out.Status)
}

func TestSaveWithoutData(t *testing.T) {
	_, s := setupTestRedis(t)
	a, err := asset.New(asset.TypeSound, "s", "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Save(context.Background(), a), asset.ErrNoData)
}

func TestNewSourceErrors(t *testing.T) {
	_, err := NewSource()
	require.Error(t, err)
	assert.Equal(t, "redis: url is empty", err.Error())

	_, err = NewSource(WithURL("127.0.0.1:6379"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "redis: parse url 127.0.0.1:6379:"))
}
