// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the agenda and session lifecycles.

# Lifecycles

Agendas and sessions both move OPENED → CLOSED and never back:

	sessions := voting.NewSessions(store, verifier)
	agendas := voting.NewAgendas(store, sessions)

An agenda is closed explicitly (CloseAgenda), which tallies every vote cast
in its sessions. A session closes when its window elapses or its agenda
closes.

# Lazy Expiry

There is no timer per session. EffectiveStatus computes a session's real
status from its end date and its agenda, and every read or write path
persists the transition before using the session. RunSweeper can close
expired sessions eagerly in the background.

# Concurrency

Operations on the same agenda are serialized by a per-agenda lock held
across the whole read-decide-write sequence, which keeps at most one open
session per agenda and one vote per member per session. RegisterVote drops
the lock while the verifier runs and repeats its admission checks once it
holds the lock again. Different agendas never wait on each other.

# Errors

Failures wrap the sentinel kinds in errors.go:

	if errors.Is(err, voting.ErrDuplicateVote) { ... }

Classify maps an error to its category (not found, validation, state
conflict, eligibility rejection, infrastructure) for the HTTP layer.
*/
package voting
