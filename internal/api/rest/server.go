// Package rest serves the aggregated schedule over HTTP: the current
// match set, single-match lookup, run history when the archive is
// configured, and a manual refresh trigger.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is the REST API server.
type Server struct {
	server  *http.Server
	handler *Handler
	log     *zap.Logger
}

// NewServer builds the router around the handlers.
func NewServer(port string, handler *Handler, log *zap.Logger) *Server {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/schedule", handler.GetSchedule).Methods("GET")
	api.HandleFunc("/matches/{matchID}", handler.GetMatch).Methods("GET")
	api.HandleFunc("/runs", handler.GetRuns).Methods("GET")
	api.HandleFunc("/refresh", handler.TriggerRefresh).Methods("POST")

	return &Server{
		handler: handler,
		log:     log,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Start blocks serving requests until shutdown.
func (s *Server) Start() error {
	s.log.Info("rest api listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
