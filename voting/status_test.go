// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"testing"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

func TestEffectiveStatus(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	session := func(status string) models.Session {
		return models.Session{StartDate: start, EndDate: end, Status: status}
	}

	testCases := []struct {
		name         string
		session      models.Session
		agendaStatus string
		now          time.Time
		expected     string
	}{
		{"open inside window", session(models.StatusOpened), models.StatusOpened, start.Add(time.Minute), models.StatusOpened},
		{"open at start", session(models.StatusOpened), models.StatusOpened, start, models.StatusOpened},
		{"one nanosecond before end", session(models.StatusOpened), models.StatusOpened, end.Add(-time.Nanosecond), models.StatusOpened},
		{"exactly at end", session(models.StatusOpened), models.StatusOpened, end, models.StatusClosed},
		{"after end", session(models.StatusOpened), models.StatusOpened, end.Add(time.Hour), models.StatusClosed},
		{"agenda closed inside window", session(models.StatusOpened), models.StatusClosed, start.Add(time.Minute), models.StatusClosed},
		{"stored closed inside window", session(models.StatusClosed), models.StatusOpened, start.Add(time.Minute), models.StatusClosed},
		{"unknown agenda status", session(models.StatusOpened), "", start.Add(time.Minute), models.StatusOpened},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveStatus(tc.session, tc.agendaStatus, tc.now); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestEffectiveStatus_ClosedIsTerminal(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	session := models.Session{StartDate: start, EndDate: start.Add(time.Minute), Status: models.StatusOpened}

	session.Status = EffectiveStatus(session, models.StatusOpened, start.Add(2*time.Minute))
	if session.Status != models.StatusClosed {
		t.Fatalf("Expected CLOSED, got %s", session.Status)
	}

	// Moving the clock back or reopening the agenda view changes nothing.
	for _, now := range []time.Time{start, start.Add(30 * time.Second), start.Add(time.Hour)} {
		if got := EffectiveStatus(session, models.StatusOpened, now); got != models.StatusClosed {
			t.Errorf("Expected CLOSED at %v, got %s", now, got)
		}
	}
}
