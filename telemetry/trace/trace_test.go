//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itelemetry "trpc.group/trpc-go/trpc-asset-go/internal/telemetry"
)

func TestTracesEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom-trace:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic-endpoint:4317")
	assert.Equal(t, "custom-trace:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	assert.Equal(t, "generic-endpoint:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", tracesEndpoint(itelemetry.ProtocolGRPC))
	assert.Equal(t, "localhost:4318", tracesEndpoint(itelemetry.ProtocolHTTP))
}

func TestParseEndpointURL(t *testing.T) {
	endpoint, path, err := parseEndpointURL("http://localhost:3000/api/public/otel")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", endpoint)
	assert.Equal(t, "/api/public/otel", path)

	endpoint, path, err = parseEndpointURL("collector:4318")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", endpoint)
	assert.Equal(t, "/", path)

	_, _, err = parseEndpointURL("http://")
	assert.Error(t, err)
}

func TestStartGRPC(t *testing.T) {
	oldProvider, oldTracer := TracerProvider, Tracer
	defer func() { TracerProvider, Tracer = oldProvider, oldTracer }()

	clean, err := Start(context.Background(), WithEndpoint("localhost:4317"))
	require.NoError(t, err)
	require.NotNil(t, clean)
	_ = clean() // no collector is running in tests
}

func TestStartHTTPExportsSpans(t *testing.T) {
	oldProvider, oldTracer := TracerProvider, Tracer
	defer func() { TracerProvider, Tracer = oldProvider, oldTracer }()

	var exports int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/v1/traces") {
			atomic.AddInt32(&exports, 1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	clean, err := Start(context.Background(),
		WithProtocol(itelemetry.ProtocolHTTP),
		WithEndpoint(strings.TrimPrefix(srv.URL, "http://")),
		WithServiceName("trace-test"),
		WithHeaders(map[string]string{"x-test": "1"}),
	)
	require.NoError(t, err)

	_, span := Tracer.Start(context.Background(), "load_asset Sound")
	span.End()

	require.NoError(t, clean())
	assert.Equal(t, int32(1), atomic.LoadInt32(&exports))
}
