//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package asset provides the asset value model: the catalogue of asset types,
// their data formats, and the Asset entity returned by asset sources.
package asset

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Asset is a typed, identified unit of binary content together with the
// assets it depends on.
//
// Assets are created by sources and handed to the caller, who owns them
// from then on. Treat a returned Asset as read-only.
type Asset struct {
	// Type is the kind of the asset. It also determines which store serves it.
	Type *Type
	// ID identifies the asset within its type: a project id, an MD5 digest, a filename.
	ID string
	// DataFormat is the encoding of Data. It is empty iff Data is nil.
	DataFormat DataFormat
	// Data is the raw payload, if loaded.
	Data []byte
	// Dependencies lists assets referenced by this one, in declaration order.
	// Not every source populates it and nothing checks it for cycles.
	Dependencies []*Asset
}

// New creates an asset. format is required iff data is non-nil.
func New(t *Type, id string, format DataFormat, data []byte) (*Asset, error) {
	if data != nil && format == "" {
		return nil, fmt.Errorf("%s/%s: %w", t, id, ErrDataWithoutFormat)
	}
	return &Asset{
		Type:       t,
		ID:         id,
		DataFormat: format,
		Data:       data,
	}, nil
}

// HasData reports whether the asset carries a payload.
func (a *Asset) HasData() bool {
	return a.Data != nil
}

// DecodeText returns the payload decoded as UTF-8 text. A leading byte order
// mark is dropped. The data format is not consulted.
func (a *Asset) DecodeText() (string, error) {
	if a.Data == nil {
		return "", fmt.Errorf("decode %s: %w", a, ErrNoData)
	}
	if !utf8.Valid(a.Data) {
		return "", fmt.Errorf("decode %s: %w", a, ErrInvalidText)
	}
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(a.Data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", a, err)
	}
	return string(text), nil
}

// EncodeDataURI returns the payload as a base64 data URI. The content type of
// the asset type is used unless a non-empty override is given.
func (a *Asset) EncodeDataURI(contentType ...string) (string, error) {
	if a.Data == nil {
		return "", fmt.Errorf("encode %s: %w", a, ErrNoData)
	}
	ct := ""
	if len(contentType) > 0 {
		ct = contentType[0]
	}
	if ct == "" && a.Type != nil {
		ct = a.Type.ContentType
	}
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(ct) + base64.StdEncoding.EncodedLen(len(a.Data)))
	b.WriteString("data:")
	b.WriteString(ct)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(a.Data))
	return b.String(), nil
}

// String returns "<type>/<id>".
func (a *Asset) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Type.String() + "/" + a.ID
}
