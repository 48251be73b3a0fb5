// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/voting-sessions/middleware"
	"github.com/danielhkuo/voting-sessions/models"
)

// AgendaService is the agenda lifecycle used by AgendaHandler.
type AgendaService interface {
	CreateAgenda(ctx context.Context, description string) (models.Agenda, error)
	GetAgenda(ctx context.Context, id string) (models.Agenda, error)
	ListAgendas(ctx context.Context) ([]models.Agenda, error)
	CloseAgenda(ctx context.Context, id, requestedStatus string) (models.Agenda, error)
}

type AgendaHandler struct {
	agendas AgendaService
}

func NewAgendaHandler(agendas AgendaService) *AgendaHandler {
	return &AgendaHandler{agendas: agendas}
}

// ListAgendas handles GET /v1/agenda
func (h *AgendaHandler) ListAgendas(w http.ResponseWriter, r *http.Request) {
	agendas, err := h.agendas.ListAgendas(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, agendas)
}

// GetAgenda handles GET /v1/agenda/{id}
func (h *AgendaHandler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	agenda, err := h.agendas.GetAgenda(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, agenda)
}

// CreateAgenda handles POST /v1/agenda
func (h *AgendaHandler) CreateAgenda(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAgendaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	agenda, err := h.agendas.CreateAgenda(r.Context(), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, agenda)
}

// CloseAgenda handles PATCH /v1/agenda/{id} with {"status":"CLOSED"}
func (h *AgendaHandler) CloseAgenda(w http.ResponseWriter, r *http.Request) {
	var req models.CloseAgendaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	agenda, err := h.agendas.CloseAgenda(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, agenda)
}
