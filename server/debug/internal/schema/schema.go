//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package schema defines the JSON payloads of the debug HTTP server.
// These types only exist to facilitate response marshalling.
package schema

// AssetType describes one entry of the asset type catalogue.
type AssetType struct {
	Name          string `json:"name"`
	ContentType   string `json:"contentType"`
	RuntimeFormat string `json:"runtimeFormat"`
	Immutable     bool   `json:"immutable"`
}

// DefaultAsset is the default asset id of a type.
type DefaultAsset struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Error is the body of every failed request.
type Error struct {
	Error string `json:"error"`
	// Errors lists the individual source failures of a failed load.
	Errors []string `json:"errors,omitempty"`
}
