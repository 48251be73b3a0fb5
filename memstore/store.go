// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package memstore keeps agendas and sessions in process memory.
package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/voting-sessions/models"
)

type Store struct {
	mu sync.RWMutex

	agendas     map[string]models.Agenda
	agendaOrder []string

	sessions     map[string]models.Session
	sessionOrder []string
}

func New() *Store {
	return &Store{
		agendas:  make(map[string]models.Agenda),
		sessions: make(map[string]models.Session),
	}
}

func (s *Store) SaveAgenda(_ context.Context, agenda models.Agenda) (models.Agenda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agenda.ID = strings.TrimSpace(agenda.ID)
	if agenda.ID == "" {
		agenda.ID = uuid.NewString()
	}
	if _, exists := s.agendas[agenda.ID]; !exists {
		s.agendaOrder = append(s.agendaOrder, agenda.ID)
	}
	agenda = cloneAgenda(agenda)
	s.agendas[agenda.ID] = agenda
	return cloneAgenda(agenda), nil
}

func (s *Store) FindAgenda(_ context.Context, id string) (models.Agenda, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agenda, ok := s.agendas[strings.TrimSpace(id)]
	if !ok {
		return models.Agenda{}, false, nil
	}
	return cloneAgenda(agenda), true, nil
}

func (s *Store) ListAgendas(_ context.Context) ([]models.Agenda, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agendas := make([]models.Agenda, 0, len(s.agendaOrder))
	for _, id := range s.agendaOrder {
		agendas = append(agendas, cloneAgenda(s.agendas[id]))
	}
	return agendas, nil
}

func (s *Store) SaveSession(_ context.Context, session models.Session) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if _, exists := s.sessions[session.ID]; !exists {
		s.sessionOrder = append(s.sessionOrder, session.ID)
	}
	s.sessions[session.ID] = session.Clone()
	return session.Clone(), nil
}

func (s *Store) FindSession(_ context.Context, id string) (models.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(id)]
	if !ok {
		return models.Session{}, false, nil
	}
	return session.Clone(), true, nil
}

func (s *Store) ListSessions(_ context.Context) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]models.Session, 0, len(s.sessionOrder))
	for _, id := range s.sessionOrder {
		sessions = append(sessions, s.sessions[id].Clone())
	}
	return sessions, nil
}

func (s *Store) ListSessionsByAgenda(_ context.Context, agendaID string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agendaID = strings.TrimSpace(agendaID)
	sessions := []models.Session{}
	for _, id := range s.sessionOrder {
		session := s.sessions[id]
		if session.AgendaID == agendaID {
			sessions = append(sessions, session.Clone())
		}
	}
	return sessions, nil
}

func cloneAgenda(agenda models.Agenda) models.Agenda {
	if agenda.Result != nil {
		result := *agenda.Result
		agenda.Result = &result
	}
	return agenda
}
