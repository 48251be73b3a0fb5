// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	seq, ok := seqColumn[dbType]
	if !ok {
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	_, err := db.Exec(fmt.Sprintf(schema, seq, seq))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// seq orders rows by first insert; its type differs per dialect.
var seqColumn = map[string]string{
	TypeSQLite:   "INTEGER PRIMARY KEY AUTOINCREMENT",
	TypePostgres: "BIGSERIAL PRIMARY KEY",
}

// Timestamps are stored as unix nanoseconds.
const schema = `
-- Agendas
CREATE TABLE IF NOT EXISTS agenda (
    seq %s,
    id TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'OPENED' CHECK (status IN ('OPENED', 'CLOSED')),
    result TEXT CHECK (result IN ('SIM', 'NAO', 'EMPATE'))
);

-- Voting sessions
CREATE TABLE IF NOT EXISTS voting_session (
    seq %s,
    id TEXT NOT NULL UNIQUE,
    agenda_id TEXT NOT NULL REFERENCES agenda(id) ON DELETE CASCADE,
    duration BIGINT NOT NULL CHECK (duration >= 1),
    start_date BIGINT NOT NULL,
    end_date BIGINT NOT NULL,
    status TEXT NOT NULL DEFAULT 'OPENED' CHECK (status IN ('OPENED', 'CLOSED'))
);

CREATE INDEX IF NOT EXISTS idx_voting_session_agenda_id ON voting_session(agenda_id);

-- Votes, one member and one CPF per session
CREATE TABLE IF NOT EXISTS vote (
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    member_cpf TEXT NOT NULL,
    vote_option TEXT NOT NULL CHECK (vote_option IN ('SIM', 'NAO')),
    PRIMARY KEY (session_id, position),
    UNIQUE (session_id, member_id),
    UNIQUE (session_id, member_cpf)
);
`
