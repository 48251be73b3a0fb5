// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists agendas and sessions in SQLite or PostgreSQL.

# Opening

Open connects with the matching driver (modernc.org/sqlite or lib/pq),
pings, and creates the schema:

	conn, err := db.Open(db.TypeSQLite, "file:voting.db")
	if err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn)

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - agenda: description, status, result
  - voting_session: agenda_id, duration, start/end dates, status
  - vote: one row per vote, ordered by position

agenda and voting_session have a seq column that preserves insert order
for listings.
Timestamps are unix nanoseconds so both dialects share one schema.

# Relationships

	agenda 1──* voting_session
	voting_session 1──* vote

vote carries UNIQUE (session_id, member_id) and UNIQUE (session_id,
member_cpf), backing the one-vote-per-member rule in the database.

# Saving Sessions

SaveSession upserts the session row, deletes its votes and inserts the
current list inside one transaction.
*/
package db
