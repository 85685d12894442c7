//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package asset

import "errors"

var (
	// ErrDataWithoutFormat is returned by New when payload bytes are supplied
	// without a data format.
	ErrDataWithoutFormat = errors.New("asset: data provided without specifying its format")
	// ErrNoData is returned when an operation needs the payload of an asset
	// that has none.
	ErrNoData = errors.New("asset: no data")
	// ErrInvalidText is returned by DecodeText when the payload is not valid UTF-8.
	ErrInvalidText = errors.New("asset: data is not valid UTF-8 text")
)
