//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

// newServer serves /{id} with the body "asset:{id}", except for ids mapped to a status.
func newServer(t *testing.T, statuses map[string]int, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		id := strings.TrimPrefix(r.URL.Path, "/")
		if code, ok := statuses[id]; ok {
			w.WriteHeader(code)
			return
		}
		_, _ = w.Write([]byte("asset:" + id))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func urlFor(base string) URLFunc {
	return func(a *asset.Asset) string {
		return base + "/" + a.ID
	}
}

func TestAttemptLoadFound(t *testing.T) {
	srv := newServer(t, nil, nil)
	s := NewSource()
	s.AddSource([]*asset.Type{asset.TypeSound}, urlFor(srv.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "meow")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, []byte("asset:meow"), out.Asset.Data)
	assert.Equal(t, asset.FormatWAV, out.Asset.DataFormat)
	assert.Equal(t, "meow", out.Asset.ID)
}

func TestAttemptLoadNotFound(t *testing.T) {
	srv := newServer(t, map[string]int{"gone": http.StatusNotFound}, nil)
	s := NewSource()
	s.AddSource([]*asset.Type{asset.TypeSound}, urlFor(srv.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "gone")
	assert.Equal(t, source.StatusNotFound, out.Status)
}

func TestAttemptLoadForbiddenFails(t *testing.T) {
	srv := newServer(t, map[string]int{"secret": http.StatusForbidden}, nil)
	s := NewSource()
	s.AddSource([]*asset.Type{asset.TypeSound}, urlFor(srv.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "secret")
	require.Equal(t, source.StatusFailed, out.Status)

	statusErr, ok := out.Err.(*StatusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "403")
}

func TestAttemptLoadNoRegistrationForType(t *testing.T) {
	var hits int32
	srv := newServer(t, nil, &hits)
	s := NewSource()
	s.AddSource([]*asset.Type{asset.TypeSound}, urlFor(srv.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeImageBitmap, "meow")
	assert.Equal(t, source.StatusNotFound, out.Status)
	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.Equal(t, 1, s.Len())
}

func TestAttemptLoadRegistrationOrder(t *testing.T) {
	var firstHits, secondHits int32
	first := newServer(t, map[string]int{"b": http.StatusNotFound}, &firstHits)
	second := newServer(t, nil, &secondHits)

	s := NewSource()
	types := []*asset.Type{asset.TypeImageVector}
	s.AddSource(types, urlFor(first.URL))
	s.AddSource(types, urlFor(second.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeImageVector, "a")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&firstHits))
	assert.Zero(t, atomic.LoadInt32(&secondHits))

	out = s.AttemptLoad(context.Background(), asset.TypeImageVector, "b")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&firstHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&secondHits))
}

func TestAttemptLoadFailureMaskedByLaterRegistration(t *testing.T) {
	broken := newServer(t, map[string]int{"x": http.StatusInternalServerError}, nil)
	healthy := newServer(t, nil, nil)

	s := NewSource()
	types := []*asset.Type{asset.TypeProject}
	s.AddSource(types, urlFor(broken.URL))
	s.AddSource(types, urlFor(healthy.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeProject, "x")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, []byte("asset:x"), out.Asset.Data)
}

func TestAttemptLoadJoinsFailures(t *testing.T) {
	forbidden := newServer(t, map[string]int{"x": http.StatusForbidden}, nil)
	missing := newServer(t, map[string]int{"x": http.StatusNotFound}, nil)
	broken := newServer(t, map[string]int{"x": http.StatusBadGateway}, nil)

	s := NewSource()
	types := []*asset.Type{asset.TypeProject}
	s.AddSource(types, urlFor(forbidden.URL))
	s.AddSource(types, urlFor(missing.URL))
	s.AddSource(types, urlFor(broken.URL))

	out := s.AttemptLoad(context.Background(), asset.TypeProject, "x")
	require.Equal(t, source.StatusFailed, out.Status)
	assert.Contains(t, out.Err.Error(), "403")
	assert.Contains(t, out.Err.Error(), "502")
}

func TestAttemptLoadEmptyURLSkipsRegistration(t *testing.T) {
	s := NewSource()
	s.AddSource([]*asset.Type{asset.TypeSound}, func(*asset.Asset) string { return "" })

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "meow")
	assert.Equal(t, source.StatusNotFound, out.Status)
}

func TestAttemptLoadTransportError(t *testing.T) {
	srv := newServer(t, nil, nil)
	url := srv.URL
	srv.Close()

	s := NewSource(WithHTTPClient(&http.Client{}))
	s.AddSource([]*asset.Type{asset.TypeSound}, urlFor(url))

	out := s.AttemptLoad(context.Background(), asset.TypeSound, "meow")
	assert.Equal(t, source.StatusFailed, out.Status)
}

func TestAddRemote(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	s := NewSource()
	s.AddRemote([]*asset.Type{asset.TypeSprite}, source.SourceFunc(
		func(_ context.Context, _ *asset.Type, id string) source.Outcome {
			calls = append(calls, "first")
			return source.Failed(boom)
		}))
	s.AddRemote([]*asset.Type{asset.TypeSprite}, source.SourceFunc(
		func(_ context.Context, typ *asset.Type, id string) source.Outcome {
			calls = append(calls, "second")
			return source.FromResult(asset.New(typ, id, asset.FormatJSON, []byte("{}")))
		}))

	out := s.AttemptLoad(context.Background(), asset.TypeSprite, "s")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, []string{"first", "second"}, calls)
}
