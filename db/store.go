// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voting-sessions/models"
)

// Store persists agendas and sessions in SQLite or PostgreSQL. Queries use
// $N placeholders, which both drivers accept.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Timestamps are stored as unix nanoseconds, which cover 1677 to 2262.
var (
	minStoredTime = time.Unix(0, math.MinInt64)
	maxStoredTime = time.Unix(0, math.MaxInt64)
)

func toUnixNano(t time.Time) (int64, error) {
	if t.Before(minStoredTime) || t.After(maxStoredTime) {
		return 0, fmt.Errorf("time %s out of storable range", t.UTC().Format(time.RFC3339))
	}
	return t.UnixNano(), nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func (s *Store) SaveAgenda(ctx context.Context, agenda models.Agenda) (models.Agenda, error) {
	if agenda.ID == "" {
		agenda.ID = uuid.NewString()
	}

	var result sql.NullString
	if agenda.Result != nil {
		result = sql.NullString{String: *agenda.Result, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agenda (id, description, status, result)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET description = excluded.description, status = excluded.status, result = excluded.result
	`, agenda.ID, agenda.Description, agenda.Status, result)
	if err != nil {
		return models.Agenda{}, fmt.Errorf("failed to upsert agenda: %w", err)
	}

	return agenda, nil
}

func (s *Store) FindAgenda(ctx context.Context, id string) (models.Agenda, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, status, result
		FROM agenda
		WHERE id = $1
	`, id)

	agenda, err := scanAgenda(row)
	if err == sql.ErrNoRows {
		return models.Agenda{}, false, nil
	}
	if err != nil {
		return models.Agenda{}, false, fmt.Errorf("failed to query agenda: %w", err)
	}
	return agenda, true, nil
}

func (s *Store) ListAgendas(ctx context.Context) ([]models.Agenda, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, status, result
		FROM agenda
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agendas: %w", err)
	}
	defer rows.Close()

	agendas := []models.Agenda{}
	for rows.Next() {
		agenda, err := scanAgenda(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agenda: %w", err)
		}
		agendas = append(agendas, agenda)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read agendas: %w", err)
	}
	return agendas, nil
}

// SaveSession upserts the session and replaces its votes in one transaction.
func (s *Store) SaveSession(ctx context.Context, session models.Session) (models.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	start, err := toUnixNano(session.StartDate)
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := toUnixNano(session.EndDate)
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid end date: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO voting_session (id, agenda_id, duration, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET status = excluded.status
	`, session.ID, session.AgendaID, session.Duration, start, end, session.Status)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to upsert session: %w", err)
	}

	// Delete old votes
	_, err = tx.ExecContext(ctx, `DELETE FROM vote WHERE session_id = $1`, session.ID)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to delete old votes: %w", err)
	}

	for i, vote := range session.Votes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (session_id, position, member_id, member_cpf, vote_option)
			VALUES ($1, $2, $3, $4, $5)
		`, session.ID, i, vote.MemberID, vote.MemberCPF, vote.VoteOption)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Session{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session.Clone(), nil
}

func (s *Store) FindSession(ctx context.Context, id string) (models.Session, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, agenda_id, duration, start_date, end_date, status
		FROM voting_session
		WHERE id = $1
	`, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to query session: %w", err)
	}

	session.Votes, err = s.votes(ctx, session.ID)
	if err != nil {
		return models.Session{}, false, err
	}
	return session, true, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.listSessions(ctx, `
		SELECT id, agenda_id, duration, start_date, end_date, status
		FROM voting_session
		ORDER BY seq
	`)
}

func (s *Store) ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error) {
	return s.listSessions(ctx, `
		SELECT id, agenda_id, duration, start_date, end_date, status
		FROM voting_session
		WHERE agenda_id = $1
		ORDER BY seq
	`, agendaID)
}

func (s *Store) listSessions(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	// Votes are loaded after the rows are closed; SQLite runs on one connection.
	for i := range sessions {
		sessions[i].Votes, err = s.votes(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (s *Store) votes(ctx context.Context, sessionID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, member_cpf, vote_option
		FROM vote
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.MemberID, &v.MemberCPF, &v.VoteOption); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return votes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgenda(row scanner) (models.Agenda, error) {
	var agenda models.Agenda
	var result sql.NullString
	if err := row.Scan(&agenda.ID, &agenda.Description, &agenda.Status, &result); err != nil {
		return models.Agenda{}, err
	}
	if result.Valid {
		agenda.Result = &result.String
	}
	return agenda, nil
}

func scanSession(row scanner) (models.Session, error) {
	var session models.Session
	var start, end int64
	err := row.Scan(&session.ID, &session.AgendaID, &session.Duration, &start, &end, &session.Status)
	if err != nil {
		return models.Session{}, err
	}
	session.StartDate = fromUnixNano(start)
	session.EndDate = fromUnixNano(end)
	return session, nil
}
