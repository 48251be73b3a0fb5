// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database, verifies the connection and creates the
// schema.
func Open(dbType, url string) (*sql.DB, error) {
	if _, ok := seqColumn[dbType]; !ok {
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if url == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}

	if err := CreateSchema(conn, dbType); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
