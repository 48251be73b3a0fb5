// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting sessions API.

# Handler Types

  - AgendaHandler: agenda creation, lookup, listing and closure
  - SessionHandler: session opening, lookup, listing and vote registration
  - OpenAPI, OpenAPIYAML: the embedded openapi.yaml, decoded with
    gopkg.in/yaml.v3 and served as JSON, or served as written

Handlers depend on the small AgendaService and SessionService interfaces,
which *voting.Agendas and *voting.Sessions satisfy:

	sessions := voting.NewSessions(store, verifier)
	agendas := voting.NewAgendas(store, sessions)
	agendaHandler := handlers.NewAgendaHandler(agendas)
	sessionHandler := handlers.NewSessionHandler(sessions)

# Request and Response Bodies

JSON with snake_case fields. Creation endpoints (agenda, session, vote)
answer 201; everything else answers 200. Listings are always arrays, never
null.

# Error Responses

Errors are models.ErrorResponse bodies. The status comes from
voting.Classify:

	not found                    404
	validation                   400
	state conflict               400
	eligibility rejection        400
	eligibility service failure  503
	anything else                500 (logged, message hidden)

A body that is not valid JSON answers 400 "Invalid JSON".
*/
package handlers
