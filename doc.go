// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voting sessions API server.

Members vote SIM or NAO on agendas during time-boxed sessions. Closing an
agenda tallies every vote cast in its sessions into SIM, NAO or EMPATE.

# Starting the Server

With no configuration the server stores data in SQLite and needs a file:

	DATABASE_URL=voting.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."
	go run . -t memory

# Configuration

Settings come from the environment (a .env file is loaded if present) and
can be overridden by flags:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres, mongo, redis or memory (default: sqlite)
  - DATABASE_URL (-d): Connection string; required unless the type is memory
  - MONGO_DATABASE (--mongo-database): MongoDB database name (default: voting)
  - ELIGIBILITY_URL (--eligibility-url): Base URL of the member eligibility
    service; when empty every member may vote
  - ELIGIBILITY_TIMEOUT (--eligibility-timeout): Per-request timeout (default: 5s)
  - ELIGIBILITY_RETRIES (--eligibility-retries): Retries on transient failures (default: 3)
  - SWEEP_INTERVAL (--sweep-interval): How often expired sessions are closed
    in the background; 0 disables the sweeper (default: 0s)

# Architecture

  - voting: Agenda and session lifecycle, vote admission, tally
  - handlers: HTTP request handlers (agendas, sessions, votes)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain and request types
  - eligibility: HTTP client for the eligibility service
  - db, mongostore, redisstore, memstore: Store backends
  - cliparse: Configuration parsing

Sessions expire lazily: any read or write that touches a session whose
window has ended persists its closure first. The optional sweeper does the
same for sessions nobody touches.
*/
package main
