// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// Epoch is the starting time of clocks built by NewFakeClock.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// FakeClock is a manually advanced clock safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// StubVerifier answers eligibility checks from fixed tables. Credentials
// not listed in Unable or Errors are eligible.
type StubVerifier struct {
	mu     sync.Mutex
	Unable map[string]bool
	Errors map[string]error
	calls  int
}

func (v *StubVerifier) Check(_ context.Context, credential string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if err, ok := v.Errors[credential]; ok {
		return false, err
	}
	return !v.Unable[credential], nil
}

// Calls returns how many checks were made.
func (v *StubVerifier) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

// Store is the part of a persistence backend fixtures write through.
type Store interface {
	SaveAgenda(ctx context.Context, agenda models.Agenda) (models.Agenda, error)
	SaveSession(ctx context.Context, session models.Session) (models.Session, error)
}

// CreateTestAgenda saves an agenda with the given status and returns it.
// Closed agendas get a result of EMPATE.
func CreateTestAgenda(t *testing.T, store Store, description, status string) models.Agenda {
	t.Helper()

	agenda := models.Agenda{Description: description, Status: status}
	if status == models.StatusClosed {
		result := models.ResultTie
		agenda.Result = &result
	}

	saved, err := store.SaveAgenda(context.Background(), agenda)
	if err != nil {
		t.Fatalf("Failed to create test agenda: %v", err)
	}
	return saved
}

// CreateTestSession saves a session for agendaID starting at start and
// lasting minutes, with the stored status and votes given.
func CreateTestSession(t *testing.T, store Store, agendaID string, start time.Time, minutes int64, status string, votes ...models.Vote) models.Session {
	t.Helper()

	if votes == nil {
		votes = []models.Vote{}
	}
	session := models.Session{
		AgendaID:  agendaID,
		Duration:  minutes,
		StartDate: start,
		EndDate:   start.Add(time.Duration(minutes) * time.Minute),
		Status:    status,
		Votes:     votes,
	}

	saved, err := store.SaveSession(context.Background(), session)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return saved
}

// TestVote builds a vote whose member id and CPF derive from n.
func TestVote(n int, option string) models.Vote {
	return models.Vote{
		MemberID:   "member-" + strconv.Itoa(n),
		MemberCPF:  "cpf-" + strconv.Itoa(n),
		VoteOption: option,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
