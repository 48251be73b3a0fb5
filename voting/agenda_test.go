// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
	"github.com/danielhkuo/voting-sessions/testutil"
)

func TestCreateAgenda(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	agenda, err := f.agendas.CreateAgenda(ctx, "  New budget  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if agenda.ID == "" || agenda.Description != "New budget" || agenda.Status != models.StatusOpened || agenda.Result != nil {
		t.Errorf("Unexpected agenda %+v", agenda)
	}

	got, err := f.agendas.GetAgenda(ctx, agenda.ID)
	if err != nil || got.ID != agenda.ID {
		t.Errorf("GetAgenda() = %+v, %v", got, err)
	}

	for _, description := range []string{"", "   "} {
		if _, err := f.agendas.CreateAgenda(ctx, description); !errors.Is(err, ErrRequiredField) {
			t.Errorf("CreateAgenda(%q): expected required field, got %v", description, err)
		}
	}
}

func TestListAgendas_CreationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []string
	for _, description := range []string{"first", "second", "third"} {
		agenda, err := f.agendas.CreateAgenda(ctx, description)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, agenda.ID)
	}

	agendas, err := f.agendas.ListAgendas(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(agendas) != len(ids) {
		t.Fatalf("Expected %d agendas, got %d", len(ids), len(agendas))
	}
	for i, agenda := range agendas {
		if agenda.ID != ids[i] {
			t.Errorf("Position %d: expected %s, got %s", i, ids[i], agenda.ID)
		}
	}
}

func TestCloseAgenda(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		sessions [][]string
		expected string
	}{
		{"no sessions", nil, models.ResultTie},
		{"empty session", [][]string{{}}, models.ResultTie},
		{"yes majority", [][]string{{"SIM", "SIM", "NAO"}}, models.ResultYes},
		{"no majority across sessions", [][]string{{"SIM"}, {"NAO", "NAO"}}, models.ResultNo},
		{"tie across sessions", [][]string{{"SIM", "SIM"}, {"NAO"}, {"NAO"}}, models.ResultTie},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			agenda := f.agenda(t)
			start := f.clock.Now().Add(-time.Duration(len(tc.sessions)+1) * time.Hour)
			voter := 0
			for i, options := range tc.sessions {
				var vs []models.Vote
				for _, opt := range options {
					vs = append(vs, testutil.TestVote(voter, opt))
					voter++
				}
				testutil.CreateTestSession(t, f.store, agenda.ID, start.Add(time.Duration(i)*time.Hour), 10, models.StatusClosed, vs...)
			}

			closed, err := f.agendas.CloseAgenda(ctx, agenda.ID, "closed")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if closed.Status != models.StatusClosed || closed.Result == nil || *closed.Result != tc.expected {
				t.Errorf("Expected CLOSED/%s, got %+v", tc.expected, closed)
			}

			stored, _, _ := f.store.FindAgenda(ctx, agenda.ID)
			if stored.Result == nil || *stored.Result != tc.expected {
				t.Errorf("Expected stored result %s, got %+v", tc.expected, stored.Result)
			}
		})
	}
}

func TestCloseAgenda_ClosesOpenSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	agenda := f.agenda(t)
	session := testutil.CreateTestSession(t, f.store, agenda.ID, f.clock.Now(), 60, models.StatusOpened,
		testutil.TestVote(1, models.OptionYes))

	closed, err := f.agendas.CloseAgenda(ctx, agenda.ID, models.StatusClosed)
	if err != nil {
		t.Fatal(err)
	}
	if *closed.Result != models.ResultYes {
		t.Errorf("Expected votes of the open session to count, got %s", *closed.Result)
	}

	stored, _, _ := f.store.FindSession(ctx, session.ID)
	if stored.Status != models.StatusClosed {
		t.Errorf("Expected session CLOSED, got %s", stored.Status)
	}

	if _, err := f.sessions.OpenSession(ctx, agenda.ID, 5); !errors.Is(err, ErrAgendaClosed) {
		t.Errorf("Expected agenda closed, got %v", err)
	}
}

func TestCloseAgenda_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	agenda := f.agenda(t)

	testCases := []struct {
		name   string
		id     string
		status string
		kind   error
	}{
		{"opened is not a closing status", agenda.ID, models.StatusOpened, ErrInvalidStatus},
		{"empty status", agenda.ID, "", ErrInvalidStatus},
		{"unknown agenda", "missing", models.StatusClosed, ErrNotFound},
		{"empty id", "", models.StatusClosed, ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.agendas.CloseAgenda(ctx, tc.id, tc.status); !errors.Is(err, tc.kind) {
				t.Errorf("Expected %v, got %v", tc.kind, err)
			}
		})
	}

	if _, err := f.agendas.CloseAgenda(ctx, agenda.ID, models.StatusClosed); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	_, err := f.agendas.CloseAgenda(ctx, agenda.ID, models.StatusClosed)
	if !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Expected already closed, got %v", err)
	}

	// The recorded result is left alone.
	stored, _, _ := f.store.FindAgenda(ctx, agenda.ID)
	if stored.Result == nil || *stored.Result != models.ResultTie {
		t.Errorf("Unexpected result %v", stored.Result)
	}
}
