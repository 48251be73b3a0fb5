// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// CloseExpired persists the closure of every session whose window has
// elapsed or whose agenda is closed. It returns how many sessions changed.
func (s *Sessions) CloseExpired(ctx context.Context) (int, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	closed := 0
	for _, session := range sessions {
		if session.Status == models.StatusClosed {
			continue
		}
		refreshed, err := s.refresh(ctx, session)
		if err != nil {
			return closed, err
		}
		if refreshed.Status == models.StatusClosed {
			closed++
		}
	}
	return closed, nil
}

// RunSweeper calls CloseExpired every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.CloseExpired(ctx)
			if err != nil {
				s.logger.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("session sweep", "closed", n)
			}
		}
	}
}
