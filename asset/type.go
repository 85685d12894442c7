//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package asset

// Type describes a kind of asset, such as a bitmap image or a sound.
// The set of types is fixed; use the package-level values or TypeByName.
type Type struct {
	// Name uniquely identifies the type.
	Name string
	// ContentType is the MIME type used when encoding the asset as a data URI.
	ContentType string
	// RuntimeFormat is the format in which the embedding runtime expects the data.
	RuntimeFormat DataFormat
	// Immutable reports whether an asset of this type never changes once stored.
	// Content-addressed types are immutable, projects are not.
	Immutable bool
}

// String returns the type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Supported asset types.
var (
	TypeImageBitmap = &Type{
		Name:          "ImageBitmap",
		ContentType:   "image/png",
		RuntimeFormat: FormatPNG,
		Immutable:     true,
	}
	TypeImageVector = &Type{
		Name:          "ImageVector",
		ContentType:   "image/svg+xml",
		RuntimeFormat: FormatSVG,
		Immutable:     true,
	}
	TypeProject = &Type{
		Name:          "Project",
		ContentType:   "application/json",
		RuntimeFormat: FormatJSON,
		Immutable:     false,
	}
	TypeSound = &Type{
		Name:          "Sound",
		ContentType:   "audio/x-wav",
		RuntimeFormat: FormatWAV,
		Immutable:     true,
	}
	TypeSprite = &Type{
		Name:          "Sprite",
		ContentType:   "application/json",
		RuntimeFormat: FormatJSON,
		Immutable:     true,
	}
)

var types = []*Type{
	TypeImageBitmap,
	TypeImageVector,
	TypeProject,
	TypeSound,
	TypeSprite,
}

var typesByName = func() map[string]*Type {
	m := make(map[string]*Type, len(types))
	for _, t := range types {
		m[t.Name] = t
	}
	return m
}()

// Types returns every supported asset type in catalogue order.
// The returned slice is a copy and may be modified by the caller.
func Types() []*Type {
	out := make([]*Type, len(types))
	copy(out, types)
	return out
}

// TypeByName looks up an asset type by its name.
func TypeByName(name string) (*Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}
