//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package asset

import "strings"

// DataFormat identifies the encoding of an asset payload.
// The empty DataFormat means the asset carries no payload.
type DataFormat string

// Known data formats. The value doubles as the usual file extension.
const (
	FormatJPG  DataFormat = "jpg"
	FormatJSON DataFormat = "json"
	FormatMP3  DataFormat = "mp3"
	FormatPNG  DataFormat = "png"
	FormatSB   DataFormat = "sb"
	FormatSB2  DataFormat = "sb2"
	FormatSB3  DataFormat = "sb3"
	FormatSVG  DataFormat = "svg"
	FormatWAV  DataFormat = "wav"
)

var formats = map[DataFormat]struct{}{
	FormatJPG:  {},
	FormatJSON: {},
	FormatMP3:  {},
	FormatPNG:  {},
	FormatSB:   {},
	FormatSB2:  {},
	FormatSB3:  {},
	FormatSVG:  {},
	FormatWAV:  {},
}

// Valid reports whether f is one of the known formats.
func (f DataFormat) Valid() bool {
	_, ok := formats[f]
	return ok
}

// FormatByExtension maps a file extension, with or without the leading dot,
// to a known DataFormat. "jpeg" is accepted as an alias of "jpg".
func FormatByExtension(ext string) (DataFormat, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpeg" {
		ext = string(FormatJPG)
	}
	f := DataFormat(ext)
	return f, f.Valid()
}
