// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/voting-sessions/models"
)

// EffectiveStatus computes the status a session really has at now. A
// session closes once now reaches its end date or its agenda is closed;
// a closed session stays closed.
func EffectiveStatus(session models.Session, agendaStatus string, now time.Time) string {
	if session.Status == models.StatusClosed {
		return models.StatusClosed
	}
	if agendaStatus == models.StatusClosed {
		return models.StatusClosed
	}
	if !now.Before(session.EndDate) {
		return models.StatusClosed
	}
	return models.StatusOpened
}
