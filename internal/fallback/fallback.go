//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package fallback implements a sequential first-success scan over an ordered
// list of attempts.
package fallback

import "context"

// Attempt is one step of a scan. It reports its value and whether it found
// one, or a non-nil error when it failed.
type Attempt[T any] func(ctx context.Context) (value T, found bool, err error)

// First runs the attempts in order and stops at the first one that finds a
// value. Errors from earlier attempts are then discarded.
//
// When no attempt finds a value, First returns the errors of the failed
// attempts in encounter order; a nil slice means every attempt came up empty
// without failing.
func First[T any](ctx context.Context, attempts ...Attempt[T]) (T, bool, []error) {
	var (
		zero T
		errs []error
	)
	for _, attempt := range attempts {
		v, found, err := attempt(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if found {
			return v, true, nil
		}
	}
	return zero, false, errs
}
