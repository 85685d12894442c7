//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/source"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func TestAttemptLoadFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Sound/meow.wav", []byte("RIFF"))

	out := NewSource(root).AttemptLoad(context.Background(), asset.TypeSound, "meow")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, "meow", out.Asset.ID)
	assert.Equal(t, asset.TypeSound, out.Asset.Type)
	assert.Equal(t, asset.FormatWAV, out.Asset.DataFormat)
	assert.Equal(t, []byte("RIFF"), out.Asset.Data)
}

func TestAttemptLoadNotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Sound/meow.wav", []byte("RIFF"))
	writeFile(t, root, "Sound/purr.bak.wav", []byte("RIFF"))
	s := NewSource(root)

	cases := []struct {
		name string
		typ  *asset.Type
		id   string
	}{
		{"missing file", asset.TypeSound, "bark"},
		{"wrong type", asset.TypeImageBitmap, "meow"},
		{"other id sharing a prefix", asset.TypeSound, "purr"},
		{"path traversal", asset.TypeSound, "../Sound/meow"},
		{"empty id", asset.TypeSound, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := s.AttemptLoad(context.Background(), c.typ, c.id)
			assert.Equal(t, source.StatusNotFound, out.Status)
		})
	}
}

func TestAttemptLoadMissingRoot(t *testing.T) {
	s := NewSource(filepath.Join(t.TempDir(), "does-not-exist"))
	out := s.AttemptLoad(context.Background(), asset.TypeSound, "meow")
	assert.Equal(t, source.StatusNotFound, out.Status)

	out = NewSource("").AttemptLoad(context.Background(), asset.TypeSound, "meow")
	assert.Equal(t, source.StatusNotFound, out.Status)
}

func TestAttemptLoadPrefersRuntimeFormat(t *testing.T) {
	fsys := fstest.MapFS{
		"ImageBitmap/cat.jpg": {Data: []byte("jpeg")},
		"ImageBitmap/cat.png": {Data: []byte("png")},
	}
	out := NewSource("", WithFS(fsys)).AttemptLoad(context.Background(), asset.TypeImageBitmap, "cat")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, asset.FormatPNG, out.Asset.DataFormat)
	assert.Equal(t, []byte("png"), out.Asset.Data)
}

func TestAttemptLoadUnknownExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"ImageBitmap/cat.gif": {Data: []byte("gif")},
	}
	out := NewSource("", WithFS(fsys)).AttemptLoad(context.Background(), asset.TypeImageBitmap, "cat")
	require.Equal(t, source.StatusFailed, out.Status)
	assert.Contains(t, out.Err.Error(), "unknown data format")
}

func TestAttemptLoadGlobMetaInID(t *testing.T) {
	fsys := fstest.MapFS{
		"Project/a.json":   {Data: []byte("{}")},
		"Project/[a].json": {Data: []byte(`{"x":1}`)},
	}
	out := NewSource("", WithFS(fsys)).AttemptLoad(context.Background(), asset.TypeProject, "[a]")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, []byte(`{"x":1}`), out.Asset.Data)
}

func TestAttemptLoadCanceled(t *testing.T) {
	fsys := fstest.MapFS{"Sound/meow.wav": {Data: []byte("RIFF")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := NewSource("", WithFS(fsys)).AttemptLoad(ctx, asset.TypeSound, "meow")
	require.Equal(t, source.StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, context.Canceled)
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	s := NewSource(root)

	a, err := asset.New(asset.TypeImageVector, "cat", asset.FormatSVG, []byte("<svg/>"))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), a))

	data, err := os.ReadFile(filepath.Join(root, "ImageVector", "cat.svg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("<svg/>"), data)

	out := s.AttemptLoad(context.Background(), asset.TypeImageVector, "cat")
	require.Equal(t, source.StatusFound, out.Status)
	assert.Equal(t, a.Data, out.Asset.Data)
}

func TestSaveErrors(t *testing.T) {
	empty, err := asset.New(asset.TypeSound, "s", "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, NewSource(t.TempDir()).Save(context.Background(), empty), asset.ErrNoData)

	full, err := asset.New(asset.TypeSound, "s", asset.FormatWAV, []byte("RIFF"))
	require.NoError(t, err)
	assert.ErrorIs(t, NewSource("", WithFS(fstest.MapFS{})).Save(context.Background(), full), ErrReadOnly)

	bad, err := asset.New(asset.TypeSound, "../s", asset.FormatWAV, []byte("RIFF"))
	require.NoError(t, err)
	assert.Error(t, NewSource(t.TempDir()).Save(context.Background(), bad))
}
