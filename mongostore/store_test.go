// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voting-sessions/testutil"
)

// openTestStore connects to TEST_MONGO_URI with a throwaway database that
// is dropped when the test ends.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := "voting_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	store, err := Open(ctx, uri, name)
	if err != nil {
		t.Fatalf("Failed to open mongo: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.client.Database(name).Drop(ctx); err != nil {
			t.Logf("drop test database: %v", err)
		}
		store.Close(ctx)
	})
	return store
}

func TestStore(t *testing.T) {
	testutil.RunStoreTests(t, func(t *testing.T) testutil.FullStore {
		return openTestStore(t)
	})
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := Open(ctx, "", "voting"); err == nil {
		t.Error("Expected error for empty URI")
	}
	if _, err := Open(ctx, "mongodb://localhost:27017", ""); err == nil {
		t.Error("Expected error for empty database name")
	}
}

func TestClose_NilStore(t *testing.T) {
	var s *Store
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
