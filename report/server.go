// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package report is the optional, read-only HTTP surface an admission-
// control or dashboard process uses to consume a registry.Registry's
// snapshots without linking against this module's Go API. It never
// exposes a Monitor's write path; spec.md's Monitor-level "no exposure
// over a network protocol" non-goal is unaffected by this package's
// existence.
package report

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jayvansantos/rippled/logging"
	"github.com/jayvansantos/rippled/registry"
)

// Server serves JSON snapshots of a registry.Registry over HTTP.
type Server struct {
	log logging.Logger
	reg *registry.Registry
	srv *http.Server
}

// New builds a Server reporting on reg. Call Serve to start accepting
// connections.
func New(log logging.Logger, reg *registry.Registry) *Server {
	if log == nil {
		log = logging.NoLog{}
	}

	s := &Server{log: log, reg: reg}

	router := mux.NewRouter()
	router.HandleFunc("/monitors", s.handleListMonitors).Methods(http.MethodGet)
	router.HandleFunc("/monitors/{name}", s.handleMonitorSnapshot).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)

	s.srv = &http.Server{Handler: gziphandler.GzipHandler(corsHandler)}
	return s
}

// Serve listens on addr and blocks serving requests until the listener
// errors or Shutdown is called, in which case it returns http.ErrServerClosed.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Info("report server listening", zap.String("addr", listener.Addr().String()))
	return s.srv.Serve(listener)
}

// Shutdown gracefully stops the server, waiting for in-flight requests to
// finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleListMonitors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.Names())
}

type snapshotResponse struct {
	Count       int64 `json:"count"`
	LatencyAvg  int64 `json:"latencyAvg"`
	LatencyPeak int64 `json:"latencyPeak"`
	IsOver      bool  `json:"isOver"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleMonitorSnapshot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	snap, ok := s.reg.Snapshot(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown monitor: " + name})
		return
	}

	writeJSON(w, http.StatusOK, snapshotResponse{
		Count:       snap.Count,
		LatencyAvg:  snap.LatencyAvg,
		LatencyPeak: snap.LatencyPeak,
		IsOver:      snap.IsOver,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
