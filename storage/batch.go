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
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-asset-go/asset"
)

// Request identifies one asset to load.
type Request struct {
	Type *asset.Type
	ID   string
}

// Result is the outcome of one Request, with the same meaning as the return
// values of Load.
type Result struct {
	Asset *asset.Asset
	Err   error
}

// LoadAll loads several independent assets concurrently. Results are in the
// order of reqs. Each asset is still resolved by a sequential scan of the
// sources; only distinct assets run in parallel.
//
// The returned error is non-nil only when the worker pool cannot be created.
func (s *Storage) LoadAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(s.parallelism)
	if err != nil {
		return nil, fmt.Errorf("storage: create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		// Each task writes only its own slot of results.
		err := pool.Submit(func() {
			defer wg.Done()
			a, err := s.Load(ctx, req.Type, req.ID)
			results[i] = Result{Asset: a, Err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = Result{Err: fmt.Errorf("storage: submit load of %s/%s: %w", req.Type, req.ID, err)}
		}
	}
	wg.Wait()
	return results, nil
}
