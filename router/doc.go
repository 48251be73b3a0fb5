// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting sessions API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(agendas, sessions)

agendas and sessions are usually *voting.Agendas and *voting.Sessions.

# Endpoints

Health:

	GET /health

Agendas:

	GET   /v1/agenda      - List agendas
	POST  /v1/agenda      - Create agenda
	GET   /v1/agenda/{id} - Get agenda
	PATCH /v1/agenda/{id} - Close agenda ({"status":"CLOSED"})

Sessions:

	GET  /v1/session                   - List sessions
	POST /v1/session                   - Open session ({"agenda_id","duration"})
	GET  /v1/session/{id}              - Get session
	GET  /v1/session/agenda/{agendaId} - List an agenda's sessions

Votes:

	PATCH /v1/session/vote/{agendaId} - Register vote
	POST  /v1/session/vote/{agendaId} - Same, for older clients

API description:

	GET /v1/openapi      - OpenAPI 3 document as JSON
	GET /v1/openapi.yaml - The same document as written

Every /v1 route is wrapped with middleware.WithLogging.
*/
package router
