// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package eligibility

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/voting"
)

func newTestClient(url string, retries int) *Client {
	return NewClient(url, time.Second,
		WithRetries(retries),
		WithInitialInterval(time.Millisecond),
	)
}

func TestClient_Check(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantAble   bool
		wantErr    error
		wantCalls  int32
	}{
		{"able", http.StatusOK, `{"status":"ABLE_TO_VOTE"}`, true, nil, 1},
		{"unable", http.StatusOK, `{"status":"UNABLE_TO_VOTE"}`, false, nil, 1},
		{"unknown cpf", http.StatusNotFound, ``, false, voting.ErrCredentialNotFound, 1},
		{"bad request is not retried", http.StatusBadRequest, ``, false, errAny, 1},
		{"unexpected status value", http.StatusOK, `{"status":"MAYBE"}`, false, errAny, 1},
		{"server error is retried", http.StatusInternalServerError, ``, false, errAny, 3},
		{"garbage body is not retried", http.StatusOK, `not json`, false, errAny, 1},
		{"empty body is not retried", http.StatusOK, ``, false, errAny, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if r.URL.Path != "/users/12345678901" {
					t.Errorf("path = %q, want /users/12345678901", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			able, err := newTestClient(server.URL, 2).Check(context.Background(), "12345678901")

			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Fatal("expected an error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if able != tt.wantAble {
				t.Errorf("able = %v, want %v", able, tt.wantAble)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

var errAny = errors.New("any error")

func TestClient_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ABLE_TO_VOTE"}`))
	}))
	defer server.Close()

	able, err := newTestClient(server.URL, 3).Check(context.Background(), "111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !able {
		t.Error("expected member to be able to vote")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestClient_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url, 1).Check(context.Background(), "111")
	if err == nil {
		t.Fatal("expected an error when the service is unreachable")
	}
	if errors.Is(err, voting.ErrCredentialNotFound) {
		t.Error("unreachable service must not look like an unknown CPF")
	}
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"ABLE_TO_VOTE"}`))
	}))
	defer server.Close()

	able, err := newTestClient(server.URL+"/", 0).Check(context.Background(), "42")
	if err != nil || !able {
		t.Fatalf("Check() = %v, %v; want true, nil", able, err)
	}
}

func TestAllowAll(t *testing.T) {
	able, err := AllowAll{}.Check(context.Background(), "anything")
	if err != nil || !able {
		t.Fatalf("AllowAll.Check() = %v, %v; want true, nil", able, err)
	}
}
