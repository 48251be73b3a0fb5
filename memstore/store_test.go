// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/danielhkuo/voting-sessions/models"
	"github.com/danielhkuo/voting-sessions/testutil"
)

func TestStore(t *testing.T) {
	testutil.RunStoreTests(t, func(t *testing.T) testutil.FullStore {
		return New()
	})
}

func TestStore_AgendaResultIsCopied(t *testing.T) {
	ctx := context.Background()
	store := New()

	result := models.ResultYes
	saved, _ := store.SaveAgenda(ctx, models.Agenda{Description: "Budget", Status: models.StatusClosed, Result: &result})
	result = models.ResultNo

	got, _, _ := store.FindAgenda(ctx, saved.ID)
	if *got.Result != models.ResultYes {
		t.Errorf("Expected stored result to be independent of the caller, got %s", *got.Result)
	}
}

func TestStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := New()
	agenda := testutil.CreateTestAgenda(t, store, "Budget", models.StatusOpened)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			testutil.CreateTestSession(t, store, agenda.ID, testutil.Epoch, 1, models.StatusOpened)
		}()
	}
	wg.Wait()

	sessions, err := store.ListSessionsByAgenda(ctx, agenda.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 50 {
		t.Errorf("Expected 50 sessions, got %d", len(sessions))
	}
}
