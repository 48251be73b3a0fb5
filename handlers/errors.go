// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voting-sessions/middleware"
	"github.com/danielhkuo/voting-sessions/voting"
)

// statusFor maps an error category to the HTTP status it is reported with.
func statusFor(category voting.Category) int {
	switch category {
	case voting.CategoryNotFound:
		return http.StatusNotFound
	case voting.CategoryValidation, voting.CategoryConflict, voting.CategoryEligibility:
		return http.StatusBadRequest
	case voting.CategoryInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err to the client. Domain messages are passed through;
// anything unclassified is logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	category := voting.Classify(err)
	status := statusFor(category)

	switch category {
	case voting.CategoryInfrastructure:
		slog.Warn("dependency unavailable", "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, status, "Eligibility service unavailable")
	case voting.CategoryUnknown:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, status, "Internal server error")
	default:
		middleware.ErrorResponse(w, status, err.Error())
	}
}
