// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/voting-sessions/middleware"
	"github.com/danielhkuo/voting-sessions/models"
)

// SessionService is the session lifecycle used by SessionHandler.
type SessionService interface {
	OpenSession(ctx context.Context, agendaID string, duration int64) (models.Session, error)
	GetSession(ctx context.Context, id string) (models.Session, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error)
	RegisterVote(ctx context.Context, agendaID string, vote models.Vote) (models.Vote, error)
}

type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// ListSessions handles GET /v1/session
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListSessions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessions)
}

// GetSession handles GET /v1/session/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, session)
}

// ListSessionsByAgenda handles GET /v1/session/agenda/{agendaId}
func (h *SessionHandler) ListSessionsByAgenda(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListSessionsByAgenda(r.Context(), r.PathValue("agendaId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessions)
}

// OpenSession handles POST /v1/session
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req models.OpenSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.sessions.OpenSession(r.Context(), req.AgendaID, req.Duration)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, session)
}

// RegisterVote handles PATCH (or POST) /v1/session/vote/{agendaId}
func (h *SessionHandler) RegisterVote(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.sessions.RegisterVote(r.Context(), r.PathValue("agendaId"), models.Vote{
		MemberID:   req.MemberID,
		MemberCPF:  req.MemberCPF,
		VoteOption: req.VoteOption,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, vote)
}
