//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package source defines the contract every asset source implements.
package source

import (
	"context"
	"errors"

	"trpc.group/trpc-go/trpc-asset-go/asset"
)

// Source is a backing store able to attempt the resolution of an asset.
type Source interface {
	// AttemptLoad tries to resolve the asset identified by t and id.
	//
	// It must eventually return. Timeouts, retries and cancellation are the
	// source's own business; a source giving up reports Failed.
	AttemptLoad(ctx context.Context, t *asset.Type, id string) Outcome
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context, t *asset.Type, id string) Outcome

// AttemptLoad calls f(ctx, t, id).
func (f SourceFunc) AttemptLoad(ctx context.Context, t *asset.Type, id string) Outcome {
	return f(ctx, t, id)
}

// Status is the tag of an Outcome.
type Status int

// Outcome statuses.
const (
	StatusNotFound Status = iota
	StatusFound
	StatusFailed
)

// String returns a lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrUnknownFailure stands in for a nil error passed to Failed.
var ErrUnknownFailure = errors.New("source: failed without an error")

// Outcome is the result of one load attempt against one source.
// Asset is set iff Status is StatusFound; Err is set iff Status is StatusFailed.
type Outcome struct {
	Status Status
	Asset  *asset.Asset
	Err    error
}

// Found reports a successful resolution. A nil asset is reported as NotFound.
func Found(a *asset.Asset) Outcome {
	if a == nil {
		return NotFound()
	}
	return Outcome{Status: StatusFound, Asset: a}
}

// NotFound reports that the source does not have the asset.
func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

// Failed reports that the source could not tell whether it has the asset.
func Failed(err error) Outcome {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Outcome{Status: StatusFailed, Err: err}
}

// FromResult converts a (asset, error) pair, where (nil, nil) means not found,
// into an Outcome.
func FromResult(a *asset.Asset, err error) Outcome {
	if err != nil {
		return Failed(err)
	}
	return Found(a)
}

// Result converts the outcome back into an (asset, error) pair.
func (o Outcome) Result() (*asset.Asset, error) {
	switch o.Status {
	case StatusFound:
		return o.Asset, nil
	case StatusFailed:
		return nil, o.Err
	default:
		return nil, nil
	}
}
