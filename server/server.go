// Package server exposes the session and authentication operations over
// HTTP.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jmolinera/go-session-center/auth"
	"github.com/jmolinera/go-session-center/internal/config"
	"github.com/jmolinera/go-session-center/sessions"
)

// Server routes HTTP requests to the session manager and the authentication
// orchestrator.
type Server struct {
	mux      *http.ServeMux
	routes   []string
	config   *config.Config
	sessions *sessions.Manager
	auth     *auth.Service
	logger   zerolog.Logger
}

// New builds the server and registers its routes.
func New(cfg *config.Config, sessionManager *sessions.Manager, authService *auth.Service, logger zerolog.Logger) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessionManager,
		auth:     authService,
		logger:   logger,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteFunc registers a handler under a "METHOD /path" pattern.
func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns.
func (s *Server) Routes() []string {
	return s.routes
}
