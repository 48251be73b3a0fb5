// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/voting-sessions/models"
)

// Agendas owns agenda creation and closure.
type Agendas struct {
	store    AgendaStore
	sessions *Sessions
	logger   *slog.Logger
}

// NewAgendas builds the agenda lifecycle. Closing an agenda closes its
// sessions through sessions, so both must share the same store.
func NewAgendas(store AgendaStore, sessions *Sessions, opts ...Option) *Agendas {
	o := resolveOptions(opts)
	return &Agendas{
		store:    store,
		sessions: sessions,
		logger:   o.logger,
	}
}

// CreateAgenda stores a new OPENED agenda.
func (a *Agendas) CreateAgenda(ctx context.Context, description string) (models.Agenda, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.Agenda{}, newError(ErrRequiredField, "description is required")
	}

	saved, err := a.store.SaveAgenda(ctx, models.Agenda{
		Description: description,
		Status:      models.StatusOpened,
	})
	if err != nil {
		return models.Agenda{}, fmt.Errorf("save agenda: %w", err)
	}

	a.logger.Info("agenda created", "agenda_id", saved.ID)
	return saved, nil
}

// GetAgenda returns the stored agenda. It does not touch the agenda's
// sessions.
func (a *Agendas) GetAgenda(ctx context.Context, id string) (models.Agenda, error) {
	return findAgenda(ctx, a.store, id)
}

func (a *Agendas) ListAgendas(ctx context.Context) ([]models.Agenda, error) {
	agendas, err := a.store.ListAgendas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agendas: %w", err)
	}
	return agendas, nil
}

// CloseAgenda closes an agenda and records its result. requestedStatus must
// be CLOSED.
//
// Sessions are re-evaluated against the closed agenda before tallying, so
// any session still open is closed by the agenda closure itself.
func (a *Agendas) CloseAgenda(ctx context.Context, id, requestedStatus string) (models.Agenda, error) {
	if strings.ToUpper(strings.TrimSpace(requestedStatus)) != models.StatusClosed {
		return models.Agenda{}, newError(ErrInvalidStatus, "invalid agenda status %q", requestedStatus)
	}

	id = strings.TrimSpace(id)
	unlock := a.sessions.locks.Lock(id)
	defer unlock()

	agenda, err := findAgenda(ctx, a.store, id)
	if err != nil {
		return models.Agenda{}, err
	}
	if agenda.Closed() {
		return models.Agenda{}, newError(ErrAlreadyClosed, "agenda %s is already closed", id)
	}

	closed := agenda
	closed.Status = models.StatusClosed

	sessions, err := a.sessions.refreshAgendaLocked(ctx, closed)
	if err != nil {
		return models.Agenda{}, err
	}

	tally := Tally(sessions)
	closed.Result = &tally.Outcome

	saved, err := a.store.SaveAgenda(ctx, closed)
	if err != nil {
		return models.Agenda{}, fmt.Errorf("save agenda: %w", err)
	}

	a.logger.Info("agenda closed",
		"agenda_id", saved.ID,
		"sessions", len(sessions),
		"yes", tally.Yes,
		"no", tally.No,
		"result", tally.Outcome,
	)
	return saved, nil
}
