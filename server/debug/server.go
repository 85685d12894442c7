//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

// Package debug provides a HTTP server for inspecting what a storage resolves.
package debug

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-asset-go/asset"
	"trpc.group/trpc-go/trpc-asset-go/log"
	"trpc.group/trpc-go/trpc-asset-go/server/debug/internal/schema"
	"trpc.group/trpc-go/trpc-asset-go/storage"
)

// Store is the part of *storage.Storage the server needs.
type Store interface {
	Load(ctx context.Context, t *asset.Type, id string) (*asset.Asset, error)
	DefaultAssetID(t *asset.Type) (string, bool)
}

// Server exposes asset loads over REST.
type Server struct {
	store       Store
	router      *mux.Router
	corsOrigins []string
}

// Option configures the Server instance.
type Option func(*Server)

// WithAllowedOrigins restricts CORS to the given origins. All origins are
// allowed by default.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// New creates a server backed by store.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:       store,
		router:      mux.NewRouter(),
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/types", s.handleListTypes).Methods(http.MethodGet)
	s.router.HandleFunc("/defaults/{type}", s.handleGetDefault).Methods(http.MethodGet)
	s.router.HandleFunc("/assets/{type}/{id}", s.handleGetAsset).Methods(http.MethodGet)
	s.router.HandleFunc("/assets/{type}/{id}/datauri", s.handleGetDataURI).Methods(http.MethodGet)
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types := asset.Types()
	out := make([]schema.AssetType, 0, len(types))
	for _, t := range types {
		out = append(out, schema.AssetType{
			Name:          t.Name,
			ContentType:   t.ContentType,
			RuntimeFormat: string(t.RuntimeFormat),
			Immutable:     t.Immutable,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDefault(w http.ResponseWriter, r *http.Request) {
	t, ok := s.assetType(w, r)
	if !ok {
		return
	}
	id, ok := s.store.DefaultAssetID(t)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no default asset for type %s", t))
		return
	}
	writeJSON(w, http.StatusOK, schema.DefaultAsset{Type: t.Name, ID: id})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	a, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", a.Type.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("X-Asset-Format", string(a.DataFormat))
	_, _ = w.Write(a.Data)
}

func (s *Server) handleGetDataURI(w http.ResponseWriter, r *http.Request) {
	a, ok := s.load(w, r)
	if !ok {
		return
	}
	uri, err := a.EncodeDataURI(r.URL.Query().Get("contentType"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(uri))
}

// load resolves the asset named by the request path and writes the error
// response itself when there is nothing to serve.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*asset.Asset, bool) {
	t, ok := s.assetType(w, r)
	if !ok {
		return nil, false
	}
	id := mux.Vars(r)["id"]
	a, err := s.store.Load(r.Context(), t, id)
	var loadErr *storage.LoadError
	switch {
	case errors.As(err, &loadErr):
		log.Warnf("debug: load %s/%s: %v", t.Name, id, err)
		msgs := make([]string, len(loadErr.Errors))
		for i, e := range loadErr.Errors {
			msgs[i] = e.Error()
		}
		writeJSON(w, http.StatusBadGateway, schema.Error{Error: err.Error(), Errors: msgs})
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	case a == nil:
		writeError(w, http.StatusNotFound, fmt.Errorf("asset %s/%s not found", t.Name, id))
		return nil, false
	case !a.HasData():
		writeError(w, http.StatusNotFound, fmt.Errorf("asset %s/%s has no data", t.Name, id))
		return nil, false
	}
	return a, true
}

func (s *Server) assetType(w http.ResponseWriter, r *http.Request) (*asset.Type, bool) {
	name := mux.Vars(r)["type"]
	t, ok := asset.TypeByName(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown asset type %q", name))
	}
	return t, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, schema.Error{Error: err.Error()})
}
