// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// FullStore is the persistence contract every backend implements.
type FullStore interface {
	Store
	FindAgenda(ctx context.Context, id string) (models.Agenda, bool, error)
	ListAgendas(ctx context.Context) ([]models.Agenda, error)
	FindSession(ctx context.Context, id string) (models.Session, bool, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	ListSessionsByAgenda(ctx context.Context, agendaID string) ([]models.Session, error)
}

// RunStoreTests exercises a backend against the shared contract. newStore
// must return an empty store.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) FullStore) {
	t.Run("agenda round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		saved, err := store.SaveAgenda(ctx, models.Agenda{Description: "Budget", Status: models.StatusOpened})
		if err != nil {
			t.Fatalf("SaveAgenda: %v", err)
		}
		if saved.ID == "" {
			t.Fatal("Expected an assigned ID")
		}

		got, ok, err := store.FindAgenda(ctx, saved.ID)
		if err != nil || !ok {
			t.Fatalf("FindAgenda = %v, %v", ok, err)
		}
		if got.Description != "Budget" || got.Status != models.StatusOpened || got.Result != nil {
			t.Errorf("Unexpected agenda %+v", got)
		}

		result := models.ResultYes
		got.Status = models.StatusClosed
		got.Result = &result
		if _, err := store.SaveAgenda(ctx, got); err != nil {
			t.Fatalf("SaveAgenda update: %v", err)
		}

		got, _, _ = store.FindAgenda(ctx, saved.ID)
		if got.Status != models.StatusClosed || got.Result == nil || *got.Result != models.ResultYes {
			t.Errorf("Update not stored: %+v", got)
		}

		agendas, err := store.ListAgendas(ctx)
		if err != nil || len(agendas) != 1 {
			t.Errorf("Expected update to replace, got %d agendas, %v", len(agendas), err)
		}
	})

	t.Run("missing records", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		if _, ok, err := store.FindAgenda(ctx, "missing"); ok || err != nil {
			t.Errorf("FindAgenda(missing) = %v, %v", ok, err)
		}
		if _, ok, err := store.FindSession(ctx, "missing"); ok || err != nil {
			t.Errorf("FindSession(missing) = %v, %v", ok, err)
		}
		sessions, err := store.ListSessionsByAgenda(ctx, "missing")
		if err != nil || len(sessions) != 0 {
			t.Errorf("ListSessionsByAgenda(missing) = %v, %v", sessions, err)
		}
		agendas, err := store.ListAgendas(ctx)
		if err != nil || len(agendas) != 0 {
			t.Errorf("ListAgendas on empty store = %v, %v", agendas, err)
		}
	})

	t.Run("session round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		agenda := CreateTestAgenda(t, store, "Budget", models.StatusOpened)

		session := CreateTestSession(t, store, agenda.ID, Epoch, 10, models.StatusOpened)
		if session.ID == "" {
			t.Fatal("Expected an assigned ID")
		}

		got, ok, err := store.FindSession(ctx, session.ID)
		if err != nil || !ok {
			t.Fatalf("FindSession = %v, %v", ok, err)
		}
		if got.AgendaID != agenda.ID || got.Duration != 10 || got.Status != models.StatusOpened {
			t.Errorf("Unexpected session %+v", got)
		}
		if !got.StartDate.Equal(Epoch) || !got.EndDate.Equal(Epoch.Add(10*time.Minute)) {
			t.Errorf("Unexpected window %v - %v", got.StartDate, got.EndDate)
		}
		if len(got.Votes) != 0 {
			t.Errorf("Expected no votes, got %+v", got.Votes)
		}

		got.Votes = append(got.Votes, TestVote(1, models.OptionYes), TestVote(2, models.OptionNo))
		got.Status = models.StatusClosed
		if _, err := store.SaveSession(ctx, got); err != nil {
			t.Fatalf("SaveSession update: %v", err)
		}

		got, _, _ = store.FindSession(ctx, session.ID)
		if got.Status != models.StatusClosed || len(got.Votes) != 2 {
			t.Fatalf("Update not stored: %+v", got)
		}
		if got.Votes[0] != TestVote(1, models.OptionYes) || got.Votes[1] != TestVote(2, models.OptionNo) {
			t.Errorf("Votes out of order: %+v", got.Votes)
		}
	})

	t.Run("far future end date", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		agenda := CreateTestAgenda(t, store, "Budget", models.StatusOpened)

		// Ends in 2215.
		const minutes = 100_000_000
		session := CreateTestSession(t, store, agenda.ID, Epoch, minutes, models.StatusOpened)

		got, ok, err := store.FindSession(ctx, session.ID)
		if err != nil || !ok {
			t.Fatalf("FindSession = %v, %v", ok, err)
		}
		want := Epoch.Add(minutes * time.Minute)
		if !got.EndDate.Equal(want) || !got.EndDate.After(got.StartDate) {
			t.Errorf("Expected end %v, got %v", want, got.EndDate)
		}
	})

	t.Run("listing order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		first := CreateTestAgenda(t, store, "first", models.StatusOpened)
		second := CreateTestAgenda(t, store, "second", models.StatusOpened)

		s1 := CreateTestSession(t, store, first.ID, Epoch, 1, models.StatusClosed)
		s2 := CreateTestSession(t, store, second.ID, Epoch, 1, models.StatusOpened)
		s3 := CreateTestSession(t, store, first.ID, Epoch.Add(time.Hour), 1, models.StatusOpened)

		// Updating an old record must not move it.
		s1.Votes = []models.Vote{TestVote(1, models.OptionYes)}
		if _, err := store.SaveSession(ctx, s1); err != nil {
			t.Fatal(err)
		}
		first.Description = "first, edited"
		if _, err := store.SaveAgenda(ctx, first); err != nil {
			t.Fatal(err)
		}

		agendas, err := store.ListAgendas(ctx)
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, "agendas", agendaIDs(agendas), first.ID, second.ID)

		sessions, err := store.ListSessions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, "sessions", sessionIDs(sessions), s1.ID, s2.ID, s3.ID)

		sessions, err = store.ListSessionsByAgenda(ctx, first.ID)
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, "sessions of first", sessionIDs(sessions), s1.ID, s3.ID)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		agenda := CreateTestAgenda(t, store, "Budget", models.StatusOpened)
		session := CreateTestSession(t, store, agenda.ID, Epoch, 5, models.StatusOpened, TestVote(1, models.OptionYes))

		got, _, _ := store.FindSession(ctx, session.ID)
		got.Votes[0].VoteOption = models.OptionNo

		again, _, _ := store.FindSession(ctx, session.ID)
		if again.Votes[0].VoteOption != models.OptionYes {
			t.Error("Mutating a returned session changed the stored one")
		}
	})
}

func agendaIDs(agendas []models.Agenda) []string {
	ids := make([]string, len(agendas))
	for i, a := range agendas {
		ids[i] = a.ID
	}
	return ids
}

func sessionIDs(sessions []models.Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

func assertIDs(t *testing.T, what string, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", what, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected %v, got %v", what, want, got)
			return
		}
	}
}
