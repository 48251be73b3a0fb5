// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// AgendaStore persists agendas. SaveAgenda is an upsert that assigns an ID
// when the agenda has none.
type AgendaStore interface {
	SaveAgenda(ctx context.Context, agenda models.Agenda) (models.Agenda, error)
	FindAgenda(ctx context.Context, id string) (models.Agenda, bool, error)
	ListAgendas(ctx context.Context) ([]models.Agenda, error)
}

// SessionStore persists sessions together with their votes.
// ListSessionsByAgenda returns sessions in the order they were first saved.
type SessionStore interface {
	SaveSession(ctx context.Context, session models.Session) (models.Session, error)
	FindSession(ctx context.Context, id string) (models.Session, bool, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error)
}

type Store interface {
	AgendaStore
	SessionStore
}

// Verifier answers whether the member holding a credential may vote now.
// It returns ErrCredentialNotFound for unknown credentials; any other error
// is treated as an infrastructure failure.
type Verifier interface {
	Check(ctx context.Context, credential string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures Sessions and Agendas.
type Option func(*options)

type options struct {
	clock  Clock
	logger *slog.Logger
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolveOptions(opts []Option) options {
	o := options{clock: systemClock{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
