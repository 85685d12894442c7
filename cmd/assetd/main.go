//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package main runs an HTTP server that resolves assets through a storage
// configured from a YAML file.
//
// Usage:
//
//	go run ./cmd/assetd -config assetd.yaml
//	go run ./cmd/assetd -config assetd.yaml -addr :9090 -log-level debug
//
// Assets are then served at /assets/{type}/{id}.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/internal/config"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/server/debug"
	"trpc.group/trpc-go/trpc-asset-go/source/cos"
	"trpc.group/trpc-go/trpc-asset-go/source/postgres"
	"trpc.group/trpc-go/trpc-asset-go/source/redis"
	"trpc.group/trpc-go/trpc-asset-go/storage"
	"trpc.group/trpc-go/trpc-asset-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-asset-go/telemetry/trace"
)

const (
	defaultListenAddr = ":8080"
	shutdownTimeout   = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	addr := flag.String("addr", defaultListenAddr, "Listen address")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error or fatal")
	flag.Parse()

	if _, ok := log.ParseLevel(*logLevel); !ok {
		log.Fatalf("unknown log level %q", *logLevel)
	}
	log.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, *configPath, *addr); err != nil {
		log.Fatalf("assetd: %v", err)
	}
}

func run(ctx context.Context, configPath, addr string) error {
	cfg := &config.Config{}
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	// Exporters flush on cleanup, after ctx is done.
	cleanup, err := startTelemetry(context.WithoutCancel(ctx), cfg.Telemetry)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: debug.New(store).Handler()}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("assetd: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Infof("assetd: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newStorage builds the storage described by cfg. The network tier is
// consulted in the order redis, postgres, web sources, COS.
func newStorage(ctx context.Context, cfg *config.Config) (*storage.Storage, error) {
	store, err := storage.New(storage.WithLocalDir(cfg.LocalDir))
	if err != nil {
		return nil, err
	}
	if r := cfg.Redis; r != nil {
		opts := []redis.Option{redis.WithURL(r.URL), redis.WithTTL(r.TTL)}
		if r.KeyPrefix != "" {
			opts = append(opts, redis.WithKeyPrefix(r.KeyPrefix))
		}
		src, err := redis.NewSource(opts...)
		if err != nil {
			return nil, err
		}
		store.AddRemoteSource(r.Types, src)
	}
	if p := cfg.Postgres; p != nil {
		opts := []postgres.Option{postgres.WithConnString(p.ConnString)}
		if p.Table != "" {
			opts = append(opts, postgres.WithTable(p.Table))
		}
		src, err := postgres.NewSource(ctx, opts...)
		if err != nil {
			return nil, err
		}
		if p.CreateTable {
			if err := src.CreateTable(ctx); err != nil {
				return nil, err
			}
		}
		store.AddRemoteSource(p.Types, src)
	}
	for _, ws := range cfg.WebSources {
		store.AddWebSource(ws.Types, ws.URLFunc())
	}
	if c := cfg.COS; c != nil {
		opts := []cos.Option{cos.WithPrefix(c.Prefix)}
		if c.Timeout > 0 {
			opts = append(opts, cos.WithTimeout(c.Timeout))
		}
		src, err := cos.NewSource(c.BucketURL, opts...)
		if err != nil {
			return nil, err
		}
		store.AddRemoteSource(c.Types, src)
	}
	for name, id := range cfg.Defaults {
		// Names were checked when the config was parsed.
		if t, ok := asset.TypeByName(name); ok {
			store.SetDefaultAssetID(t, id)
		}
	}
	return store, nil
}

// startTelemetry starts the OTLP exporters when an endpoint is configured.
func startTelemetry(ctx context.Context, cfg config.Telemetry) (func(), error) {
	if cfg.Endpoint == "" {
		return func() {}, nil
	}
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = "grpc"
	}

	cleanTrace, err := trace.Start(ctx, trace.WithEndpoint(cfg.Endpoint), trace.WithProtocol(protocol))
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	cleanMetric, err := metric.Start(ctx, metric.WithEndpoint(cfg.Endpoint), metric.WithProtocol(protocol))
	if err != nil {
		_ = cleanTrace()
		return nil, fmt.Errorf("start metrics: %w", err)
	}
	return func() {
		if err := cleanMetric(); err != nil {
			log.Warnf("assetd: %v", err)
		}
		if err := cleanTrace(); err != nil {
			log.Warnf("assetd: %v", err)
		}
	}, nil
}
