// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

// NewRouter returns a new instance of chi router implementing the
// introspection API specification.
func NewRouter(introspection IntrospectionServer) http.Handler {
	router := chi.NewRouter()
	router.Get("/topology", NewTopologyHandler(introspection).ServeHTTP)
	router.Get("/state", NewInternalStateHandler(introspection).ServeHTTP)
	return router
}

type pingHandler struct {
	//
}

func (h *pingHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if _, err := writer.Write([]byte("pong")); err != nil {
		log.WithError(err).Fatal("Failed to write 'pong' response")
	}
}

// NewPingHandler returns a new instance of http handler
// for serving /ping.
func NewPingHandler() http.Handler {
	return &pingHandler{}
}

type topologyHandler struct {
	introspection IntrospectionServer
}

func (h *topologyHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	topology := h.introspection.Topology()
	render.JSON(writer, request, &topology)
}

// NewTopologyHandler returns a new instance of http handler
// for serving /topology.
func NewTopologyHandler(introspection IntrospectionServer) http.Handler {
	return &topologyHandler{introspection: introspection}
}

type internalStateHandler struct {
	introspection IntrospectionServer
}

func (h *internalStateHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state := h.introspection.InternalState()
	if state == nil {
		http.Error(writer, "internal state not available", http.StatusInternalServerError)
		return
	}
	render.JSON(writer, request, state)
}

// NewInternalStateHandler returns a new instance of http handler
// for serving /state.
func NewInternalStateHandler(introspection IntrospectionServer) http.Handler {
	return &internalStateHandler{introspection: introspection}
}
