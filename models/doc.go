// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateAgendaRequest: description
  - CloseAgendaRequest: status (must be "CLOSED")
  - OpenSessionRequest: agenda_id, duration (minutes)
  - RegisterVoteRequest: member_id, member_cpf, vote_option

# Domain Types

  - Agenda: a proposal with OPENED/CLOSED status and a result once closed
  - Session: a time-boxed voting window owned by one agenda
  - Vote: one member's SIM/NAO choice inside a session

Domain types are returned directly as JSON responses. Errors use
ErrorResponse.

# Constants

Status values:

	StatusOpened = "OPENED"
	StatusClosed = "CLOSED"

Vote options and results:

	OptionYes = "SIM"
	OptionNo  = "NAO"
	ResultTie = "EMPATE"
*/
package models
