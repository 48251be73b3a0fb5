// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// maxDuration keeps start + duration inside time.Duration's range.
const maxDuration = math.MaxInt64 / int64(time.Minute)

// latestEndDate is the last end date every store can represent. SQL stores
// keep unix nanoseconds.
var latestEndDate = time.Unix(0, math.MaxInt64).UTC()

// Sessions owns the session state machine and vote admission.
//
// Every sequence that reads an agenda's sessions and then writes one of them
// runs under that agenda's lock, including the write-through of a lazy
// OPENED -> CLOSED transition.
type Sessions struct {
	store    Store
	verifier Verifier
	clock    Clock
	logger   *slog.Logger
	locks    keyedMutex
}

// NewSessions builds the session lifecycle. verifier must not be nil.
func NewSessions(store Store, verifier Verifier, opts ...Option) *Sessions {
	o := resolveOptions(opts)
	return &Sessions{
		store:    store,
		verifier: verifier,
		clock:    o.clock,
		logger:   o.logger,
	}
}

// OpenSession opens a voting window of duration minutes on an agenda.
// A duration of 0 is treated as 1.
func (s *Sessions) OpenSession(ctx context.Context, agendaID string, duration int64) (models.Session, error) {
	agendaID = strings.TrimSpace(agendaID)
	if agendaID == "" {
		return models.Session{}, newError(ErrRequiredField, "agenda_id is required")
	}
	if duration < 0 || duration > maxDuration {
		return models.Session{}, newError(ErrInvalidDuration, "duration must be between 0 and %d minutes", maxDuration)
	}
	if duration == 0 {
		duration = 1
	}

	unlock := s.locks.Lock(agendaID)
	defer unlock()

	agenda, err := findAgenda(ctx, s.store, agendaID)
	if err != nil {
		return models.Session{}, err
	}
	if agenda.Closed() {
		s.logger.Warn("session rejected", "agenda_id", agendaID, "reason", "agenda closed")
		return models.Session{}, newError(ErrAgendaClosed, "agenda %s is closed", agendaID)
	}

	sessions, err := s.refreshAgendaLocked(ctx, agenda)
	if err != nil {
		return models.Session{}, err
	}
	for _, existing := range sessions {
		if existing.Status == models.StatusOpened {
			s.logger.Warn("session rejected", "agenda_id", agendaID, "open_session_id", existing.ID)
			return models.Session{}, newError(ErrSessionAlreadyOpen, "there's already an opened session for agenda %s", agendaID)
		}
	}

	now := s.clock.Now()
	end := now.Add(time.Duration(duration) * time.Minute)
	if end.After(latestEndDate) {
		return models.Session{}, newError(ErrInvalidDuration, "a %d minute session would end after %s",
			duration, latestEndDate.Format(time.RFC3339))
	}

	session := models.Session{
		AgendaID:  agendaID,
		Duration:  duration,
		StartDate: now,
		EndDate:   end,
		Status:    models.StatusOpened,
		Votes:     []models.Vote{},
	}

	saved, err := s.store.SaveSession(ctx, session)
	if err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session opened",
		"session_id", saved.ID,
		"agenda_id", agendaID,
		"duration_min", duration,
		"end_date", saved.EndDate,
	)
	return saved, nil
}

// GetSession returns a session with its status brought up to date.
func (s *Sessions) GetSession(ctx context.Context, id string) (models.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Session{}, newError(ErrNotFound, "session not found")
	}

	session, ok, err := s.store.FindSession(ctx, id)
	if err != nil {
		return models.Session{}, fmt.Errorf("find session %s: %w", id, err)
	}
	if !ok {
		return models.Session{}, newError(ErrNotFound, "session %s not found", id)
	}

	return s.refresh(ctx, session)
}

// ListSessions returns every session, each brought up to date.
func (s *Sessions) ListSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	result := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		refreshed, err := s.refresh(ctx, session)
		if err != nil {
			return nil, err
		}
		result = append(result, refreshed)
	}
	return result, nil
}

// ListSessionsByAgenda returns the sessions of an agenda in the order they
// were opened, each brought up to date. Unknown agendas have no sessions.
func (s *Sessions) ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error) {
	agendaID = strings.TrimSpace(agendaID)
	if agendaID == "" {
		return []models.Session{}, nil
	}

	unlock := s.locks.Lock(agendaID)
	defer unlock()

	agenda, ok, err := s.store.FindAgenda(ctx, agendaID)
	if err != nil {
		return nil, fmt.Errorf("find agenda %s: %w", agendaID, err)
	}
	if !ok {
		agenda = models.Agenda{ID: agendaID}
	}
	return s.refreshAgendaLocked(ctx, agenda)
}

// RegisterVote admits one vote into the agenda's open session.
//
// The agenda's lock is not held while the verifier runs. Admission is
// checked before the call and again after it, so a session that expired,
// an agenda that closed or a member who voted in the meantime still
// rejects the vote.
func (s *Sessions) RegisterVote(ctx context.Context, agendaID string, vote models.Vote) (models.Vote, error) {
	vote = normalizeVote(vote)
	if err := validateVote(vote); err != nil {
		return models.Vote{}, err
	}
	agendaID = strings.TrimSpace(agendaID)

	unlock := s.locks.Lock(agendaID)
	target, err := s.admitLocked(ctx, agendaID, vote)
	unlock()
	if err != nil {
		return models.Vote{}, err
	}

	eligible, err := s.verifier.Check(ctx, vote.MemberCPF)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			s.logger.Warn("vote rejected", "agenda_id", agendaID, "member_id", vote.MemberID, "reason", "unknown cpf")
			return models.Vote{}, newError(ErrInvalidCredential, "invalid CPF")
		}
		return models.Vote{}, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	}
	if !eligible {
		s.logger.Warn("vote rejected", "agenda_id", agendaID, "member_id", vote.MemberID, "reason", "unable to vote")
		return models.Vote{}, newError(ErrIneligibleMember, "member is unable to vote")
	}

	unlock = s.locks.Lock(agendaID)
	defer unlock()

	open, err := s.admitLocked(ctx, agendaID, vote)
	if err != nil {
		return models.Vote{}, err
	}
	if open.ID != target.ID {
		// The checked session closed and another one opened.
		s.logger.Warn("vote rejected", "agenda_id", agendaID, "session_id", target.ID, "reason", "session expired")
		return models.Vote{}, newError(ErrNoOpenSession, "there's no opened session for agenda %s", agendaID)
	}

	open = open.Clone()
	open.Votes = append(open.Votes, vote)
	if _, err := s.store.SaveSession(ctx, open); err != nil {
		return models.Vote{}, fmt.Errorf("save vote: %w", err)
	}

	s.logger.Info("vote registered",
		"agenda_id", agendaID,
		"session_id", open.ID,
		"member_id", vote.MemberID,
		"votes", len(open.Votes),
	)
	return vote, nil
}

// admitLocked returns the agenda's open session if vote may go into it.
// The caller holds the agenda's lock.
func (s *Sessions) admitLocked(ctx context.Context, agendaID string, vote models.Vote) (models.Session, error) {
	agenda, err := findAgenda(ctx, s.store, agendaID)
	if err != nil {
		return models.Session{}, err
	}
	if agenda.Closed() {
		s.logger.Warn("vote rejected", "agenda_id", agendaID, "reason", "agenda closed")
		return models.Session{}, newError(ErrAgendaClosed, "agenda %s is closed", agendaID)
	}

	sessions, err := s.refreshAgendaLocked(ctx, agenda)
	if err != nil {
		return models.Session{}, err
	}
	open, ok := openSession(sessions)
	if !ok {
		s.logger.Warn("vote rejected", "agenda_id", agendaID, "reason", "no open session")
		return models.Session{}, newError(ErrNoOpenSession, "there's no opened session for agenda %s", agendaID)
	}

	for _, existing := range open.Votes {
		if existing.MemberID == vote.MemberID || existing.MemberCPF == vote.MemberCPF {
			s.logger.Warn("vote rejected", "agenda_id", agendaID, "session_id", open.ID, "member_id", vote.MemberID, "reason", "duplicate")
			return models.Session{}, newError(ErrDuplicateVote, "member already voted")
		}
	}
	return open, nil
}

// refresh brings one session up to date, taking its agenda's lock only when
// the session may still need a transition.
func (s *Sessions) refresh(ctx context.Context, session models.Session) (models.Session, error) {
	if session.Status == models.StatusClosed {
		return session, nil
	}

	unlock := s.locks.Lock(session.AgendaID)
	defer unlock()

	// Re-read under the lock so a concurrent vote is not overwritten.
	current, ok, err := s.store.FindSession(ctx, session.ID)
	if err != nil {
		return models.Session{}, fmt.Errorf("find session %s: %w", session.ID, err)
	}
	if !ok {
		return models.Session{}, newError(ErrNotFound, "session %s not found", session.ID)
	}

	agenda, _, err := s.store.FindAgenda(ctx, current.AgendaID)
	if err != nil {
		return models.Session{}, fmt.Errorf("find agenda %s: %w", current.AgendaID, err)
	}
	return s.refreshLocked(ctx, current, agenda.Status)
}

// refreshAgendaLocked brings every session of agenda up to date, judged
// against agenda as given. The caller holds the agenda's lock.
func (s *Sessions) refreshAgendaLocked(ctx context.Context, agenda models.Agenda) ([]models.Session, error) {
	sessions, err := s.store.ListSessionsByAgenda(ctx, agenda.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions of agenda %s: %w", agenda.ID, err)
	}

	result := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		refreshed, err := s.refreshLocked(ctx, session, agenda.Status)
		if err != nil {
			return nil, err
		}
		result = append(result, refreshed)
	}
	return result, nil
}

// refreshLocked persists a pending OPENED -> CLOSED transition.
func (s *Sessions) refreshLocked(ctx context.Context, session models.Session, agendaStatus string) (models.Session, error) {
	status := EffectiveStatus(session, agendaStatus, s.clock.Now())
	if status == session.Status {
		return session, nil
	}

	session.Status = status
	saved, err := s.store.SaveSession(ctx, session)
	if err != nil {
		return models.Session{}, fmt.Errorf("close session %s: %w", session.ID, err)
	}

	reason := "expired"
	if agendaStatus == models.StatusClosed {
		reason = "agenda closed"
	}
	s.logger.Info("session closed", "session_id", saved.ID, "agenda_id", saved.AgendaID, "reason", reason)
	return saved, nil
}

func openSession(sessions []models.Session) (models.Session, bool) {
	for _, session := range sessions {
		if session.Status == models.StatusOpened {
			return session, true
		}
	}
	return models.Session{}, false
}

func normalizeVote(vote models.Vote) models.Vote {
	vote.MemberID = strings.TrimSpace(vote.MemberID)
	vote.MemberCPF = strings.TrimSpace(vote.MemberCPF)
	vote.VoteOption = strings.ToUpper(strings.TrimSpace(vote.VoteOption))
	return vote
}

func validateVote(vote models.Vote) error {
	if vote.VoteOption == "" {
		return newError(ErrRequiredField, "vote_option is required")
	}
	if vote.VoteOption != models.OptionYes && vote.VoteOption != models.OptionNo {
		return newError(ErrInvalidVote, "vote_option must be SIM or NAO")
	}
	if vote.MemberID == "" {
		return newError(ErrRequiredField, "member_id is required")
	}
	if vote.MemberCPF == "" {
		return newError(ErrRequiredField, "member_cpf is required")
	}
	return nil
}

func findAgenda(ctx context.Context, store AgendaStore, id string) (models.Agenda, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Agenda{}, newError(ErrNotFound, "agenda not found")
	}

	agenda, ok, err := store.FindAgenda(ctx, id)
	if err != nil {
		return models.Agenda{}, fmt.Errorf("find agenda %s: %w", id, err)
	}
	if !ok {
		return models.Agenda{}, newError(ErrNotFound, "agenda %s not found", id)
	}
	return agenda, nil
}
