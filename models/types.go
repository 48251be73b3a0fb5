// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Agenda and session status constants
const (
	StatusOpened = "OPENED"
	StatusClosed = "CLOSED"
)

// Vote option constants
const (
	OptionYes = "SIM"
	OptionNo  = "NAO"
)

// Tally outcomes. A tie is neither SIM nor NAO.
const (
	ResultYes = OptionYes
	ResultNo  = OptionNo
	ResultTie = "EMPATE"
)

// Request types

type CreateAgendaRequest struct {
	Description string `json:"description"`
}

type CloseAgendaRequest struct {
	Status string `json:"status"`
}

type OpenSessionRequest struct {
	AgendaID string `json:"agenda_id"`
	Duration int64  `json:"duration"` // minutes
}

type RegisterVoteRequest struct {
	MemberID   string `json:"member_id"`
	MemberCPF  string `json:"member_cpf"`
	VoteOption string `json:"vote_option"`
}

// Domain types

type Agenda struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Result      *string `json:"result,omitempty"`
}

// Closed reports whether the agenda has been closed and tallied.
func (a Agenda) Closed() bool {
	return a.Status == StatusClosed
}

type Session struct {
	ID        string    `json:"id"`
	AgendaID  string    `json:"agenda_id"`
	Duration  int64     `json:"duration"` // minutes
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	Votes     []Vote    `json:"votes"`
}

// Clone returns a copy of the session that shares no vote storage with s.
func (s Session) Clone() Session {
	votes := make([]Vote, len(s.Votes))
	copy(votes, s.Votes)
	s.Votes = votes
	return s
}

type Vote struct {
	MemberID   string `json:"member_id"`
	MemberCPF  string `json:"member_cpf"`
	VoteOption string `json:"vote_option"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
