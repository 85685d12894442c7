//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package builtin provides an asset source for assets bundled with the binary.
//
// A small set of default assets (a blank bitmap, a blank vector image and a
// silent sound) is embedded and registered on construction. Builtin assets are
// content addressed: unless stated otherwise their id is the MD5 hex digest of
// their data.
package builtin

import (
	"context"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"path"
	"sync"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

//go:embed data
var dataFS embed.FS

type defaultAsset struct {
	typ    *asset.Type
	format asset.DataFormat
	file   string
}

var defaultAssets = []defaultAsset{
	{typ: asset.TypeImageBitmap, format: asset.FormatPNG, file: "default.png"},
	{typ: asset.TypeSound, format: asset.FormatWAV, file: "default.wav"},
	{typ: asset.TypeImageVector, format: asset.FormatSVG, file: "default.svg"},
}

type entry struct {
	format asset.DataFormat
	data   []byte
}

// Source serves assets held in memory. It is safe for concurrent use.
type Source struct {
	// mutex protects assets and defaults.
	mutex sync.RWMutex
	// assets maps "<type>/<id>" to its payload.
	assets map[string]entry
	// defaults maps a type name to the id of its default asset.
	defaults map[string]string
}

var _ source.Source = (*Source)(nil)

// NewSource creates a builtin source preloaded with the embedded default assets.
func NewSource() (*Source, error) {
	s := &Source{
		assets:   make(map[string]entry),
		defaults: make(map[string]string),
	}
	for _, d := range defaultAssets {
		data, err := dataFS.ReadFile(path.Join("data", d.file))
		if err != nil {
			return nil, fmt.Errorf("read builtin %s: %w", d.file, err)
		}
		id, err := s.Store(d.typ, d.format, data, "")
		if err != nil {
			return nil, err
		}
		s.defaults[d.typ.Name] = id
	}
	return s, nil
}

// Store registers an asset with the source and returns its id.
// When id is empty the MD5 hex digest of data is used.
func (s *Source) Store(t *asset.Type, format asset.DataFormat, data []byte, id string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("builtin: store: nil asset type")
	}
	if format == "" {
		return "", fmt.Errorf("builtin: store %s: %w", t.Name, asset.ErrDataWithoutFormat)
	}
	if id == "" {
		sum := md5.Sum(data)
		id = hex.EncodeToString(sum[:])
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.assets[key(t, id)] = entry{format: format, data: buf}
	return id, nil
}

// AttemptLoad returns a copy of the stored asset, or NotFound.
func (s *Source) AttemptLoad(_ context.Context, t *asset.Type, id string) source.Outcome {
	s.mutex.RLock()
	e, ok := s.assets[key(t, id)]
	s.mutex.RUnlock()
	if !ok {
		return source.NotFound()
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return source.FromResult(asset.New(t, id, e.format, data))
}

// DefaultIDs returns the ids of the embedded default assets keyed by type name.
func (s *Source) DefaultIDs() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make(map[string]string, len(s.defaults))
	for k, v := range s.defaults {
		out[k] = v
	}
	return out
}

func key(t *asset.Type, id string) string {
	return t.String() + "/" + id
}
