//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package local provides an asset source backed by a cache directory.
//
// Assets are stored one file per asset:
//
//	{root}/{type_name}/{asset_id}.{format}
//
// The format is recovered from the file extension when loading.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

// ErrReadOnly is returned by Save when the source has no directory to write to.
var ErrReadOnly = errors.New("local: source is read-only")

// Source loads assets from a directory tree.
type Source struct {
	root string
	fsys fs.FS
}

var _ source.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithFS reads assets from fsys instead of the root directory. A source built
// this way cannot Save unless a root directory is also given.
func WithFS(fsys fs.FS) Option {
	return func(s *Source) {
		s.fsys = fsys
	}
}

// NewSource creates a source reading from root. root may be empty when WithFS is used.
func NewSource(root string, opts ...Option) *Source {
	s := &Source{root: root}
	for _, opt := range opts {
		opt(s)
	}
	if s.fsys == nil && root != "" {
		s.fsys = os.DirFS(root)
	}
	return s
}

// AttemptLoad looks for {type}/{id}.* and returns the first match, preferring
// the runtime format of the type when several files exist.
func (s *Source) AttemptLoad(ctx context.Context, t *asset.Type, id string) source.Outcome {
	if s.fsys == nil || !validID(id) {
		return source.NotFound()
	}
	if err := ctx.Err(); err != nil {
		return source.Failed(err)
	}

	pattern := path.Join(t.Name, escapeMeta(id)+".*")
	matches, err := doublestar.Glob(s.fsys, pattern)
	if err != nil {
		return source.Failed(fmt.Errorf("local: search %s: %w", pattern, err))
	}
	name, ok := pick(matches, id, t.RuntimeFormat)
	if !ok {
		return source.NotFound()
	}

	format, ok := asset.FormatByExtension(path.Ext(name))
	if !ok {
		return source.Failed(fmt.Errorf("local: %s: unknown data format %q", name, path.Ext(name)))
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return source.NotFound()
		}
		return source.Failed(fmt.Errorf("local: read %s: %w", name, err))
	}
	log.Debugf("local: loaded %s/%s from %s", t.Name, id, name)
	return source.FromResult(asset.New(t, id, format, data))
}

// Save writes the asset payload into the cache directory.
func (s *Source) Save(ctx context.Context, a *asset.Asset) error {
	if s.root == "" {
		return ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.HasData() {
		return fmt.Errorf("local: save %s: %w", a, asset.ErrNoData)
	}
	if !validID(a.ID) {
		return fmt.Errorf("local: save %s: invalid asset id", a)
	}
	dir := filepath.Join(s.root, a.Type.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("local: create %s: %w", dir, err)
	}
	file := filepath.Join(dir, a.ID+"."+string(a.DataFormat))
	if err := os.WriteFile(file, a.Data, 0o644); err != nil {
		return fmt.Errorf("local: write %s: %w", file, err)
	}
	return nil
}

// pick chooses among files named {id}.{ext}. A file such as {id}.bak.wav
// also matches the glob but belongs to another id and is skipped.
func pick(matches []string, id string, preferred asset.DataFormat) (string, bool) {
	sort.Strings(matches)
	var first string
	for _, m := range matches {
		ext := path.Ext(m)
		if strings.TrimSuffix(path.Base(m), ext) != id {
			continue
		}
		if strings.EqualFold(strings.TrimPrefix(ext, "."), string(preferred)) {
			return m, true
		}
		if first == "" {
			first = m
		}
	}
	return first, first != ""
}

// validID rejects ids that cannot name a single file in a type directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." &&
		!strings.ContainsAny(id, `/\`) && !strings.ContainsRune(id, 0)
}

func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
