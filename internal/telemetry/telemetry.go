//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds names, attribute keys and helpers shared by the
// tracing and metrics packages.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetry service constants.
const (
	ServiceName      = "assetd"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-asset-go"
	InstrumentName   = "trpc.asset.go"

	SpanNamePrefixLoadAsset = "load_asset"
	SpanNamePrefixAttempt   = "attempt_load"

	MetricNameLoads        = "trpc.asset.load"
	MetricNameLoadDuration = "trpc.asset.load.duration"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// telemetry attributes constants.
var (
	KeyAssetType  = attribute.Key("trpc.asset.type")
	KeyAssetID    = attribute.Key("trpc.asset.id")
	KeyLoadID     = attribute.Key("trpc.asset.load_id")
	KeySource     = attribute.Key("trpc.asset.source")
	KeyOutcome    = attribute.Key("trpc.asset.outcome")
	KeyErrorCount = attribute.Key("trpc.asset.error_count")
)

// NewLoadSpanName returns the span name of a whole load, e.g. "load_asset Sound".
func NewLoadSpanName(typeName string) string {
	return joinName(SpanNamePrefixLoadAsset, typeName)
}

// NewAttemptSpanName returns the span name of one source attempt, e.g. "attempt_load web".
func NewAttemptSpanName(sourceName string) string {
	return joinName(SpanNamePrefixAttempt, sourceName)
}

func joinName(prefix, suffix string) string {
	if suffix == "" {
		return prefix
	}
	return prefix + " " + suffix
}

// TraceOutcome records the outcome of a load or attempt on span.
// A non-nil err marks the span as failed.
func TraceOutcome(span trace.Span, outcome string, err error) {
	span.SetAttributes(KeyOutcome.String(outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// NewGRPCConn creates a gRPC client connection to an OpenTelemetry collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
