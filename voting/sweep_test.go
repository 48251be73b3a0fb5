// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
	"github.com/danielhkuo/voting-sessions/testutil"
)

func TestCloseExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := f.clock.Now()

	live := f.agenda(t)
	closedAgenda := testutil.CreateTestAgenda(t, f.store, "Done", models.StatusClosed)
	other := f.agenda(t)

	expired := testutil.CreateTestSession(t, f.store, live.ID, now.Add(-time.Hour), 5, models.StatusOpened)
	running := testutil.CreateTestSession(t, f.store, live.ID, now, 30, models.StatusOpened)
	orphaned := testutil.CreateTestSession(t, f.store, closedAgenda.ID, now, 30, models.StatusOpened)
	done := testutil.CreateTestSession(t, f.store, other.ID, now.Add(-time.Hour), 5, models.StatusClosed)

	n, err := f.sessions.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 sessions closed, got %d", n)
	}

	expectations := map[string]string{
		expired.ID:  models.StatusClosed,
		running.ID:  models.StatusOpened,
		orphaned.ID: models.StatusClosed,
		done.ID:     models.StatusClosed,
	}
	for id, want := range expectations {
		stored, _, _ := f.store.FindSession(ctx, id)
		if stored.Status != want {
			t.Errorf("Session %s: expected %s, got %s", id, want, stored.Status)
		}
	}

	// Nothing left to do.
	if n, _ := f.sessions.CloseExpired(ctx); n != 0 {
		t.Errorf("Expected second sweep to close nothing, got %d", n)
	}

	f.clock.Advance(30 * time.Minute)
	if n, _ := f.sessions.CloseExpired(ctx); n != 1 {
		t.Errorf("Expected the running session to expire, got %d", n)
	}
}

func TestRunSweeper(t *testing.T) {
	f := newFixture(t)
	agenda := f.agenda(t)
	session := testutil.CreateTestSession(t, f.store, agenda.ID, f.clock.Now().Add(-time.Hour), 1, models.StatusOpened)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.sessions.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		stored, _, _ := f.store.FindSession(context.Background(), session.ID)
		if stored.Status == models.StatusClosed {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Sweeper never closed the expired session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sweeper did not stop after cancel")
	}
}
