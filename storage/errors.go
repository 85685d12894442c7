//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package storage

import (
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-asset-go/asset"
)

// ErrNilType is returned by Load when no asset type is given.
var ErrNilType = errors.New("storage: nil asset type")

// LoadError reports that no source produced an asset and at least one source
// failed. Errors holds every failure in the order the sources were tried.
type LoadError struct {
	Type   *asset.Type
	ID     string
	Errors []error
}

// Error implements error.
func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("storage: load %s/%s: %d source(s) failed: %s",
		e.Type, e.ID, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the individual source failures so errors.Is and errors.As
// can match any of them.
func (e *LoadError) Unwrap() []error {
	return e.Errors
}
