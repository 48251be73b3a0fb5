// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/voting-sessions/handlers"
	"github.com/danielhkuo/voting-sessions/middleware"
)

func NewRouter(agendas handlers.AgendaService, sessions handlers.SessionService) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	agendaHandler := handlers.NewAgendaHandler(agendas)
	sessionHandler := handlers.NewSessionHandler(sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Agendas
	mux.HandleFunc("GET /v1/agenda", middleware.WithLogging(agendaHandler.ListAgendas))
	mux.HandleFunc("POST /v1/agenda", middleware.WithLogging(agendaHandler.CreateAgenda))
	mux.HandleFunc("GET /v1/agenda/{id}", middleware.WithLogging(agendaHandler.GetAgenda))
	mux.HandleFunc("PATCH /v1/agenda/{id}", middleware.WithLogging(agendaHandler.CloseAgenda))

	// Sessions
	mux.HandleFunc("GET /v1/session", middleware.WithLogging(sessionHandler.ListSessions))
	mux.HandleFunc("POST /v1/session", middleware.WithLogging(sessionHandler.OpenSession))
	mux.HandleFunc("GET /v1/session/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("GET /v1/session/agenda/{agendaId}", middleware.WithLogging(sessionHandler.ListSessionsByAgenda))

	// Votes; POST kept for older clients
	mux.HandleFunc("PATCH /v1/session/vote/{agendaId}", middleware.WithLogging(sessionHandler.RegisterVote))
	mux.HandleFunc("POST /v1/session/vote/{agendaId}", middleware.WithLogging(sessionHandler.RegisterVote))

	// API description
	mux.HandleFunc("GET /v1/openapi", middleware.WithLogging(handlers.OpenAPI))
	mux.HandleFunc("GET /v1/openapi.yaml", middleware.WithLogging(handlers.OpenAPIYAML))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voting-sessions API v1"))
	})

	return mux
}
