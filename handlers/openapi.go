// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/voting-sessions/middleware"
)

//go:embed openapi.yaml
var openAPISpec []byte

// openAPIDocument is the embedded description decoded once for JSON output.
var openAPIDocument = sync.OnceValues(func() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("decode openapi.yaml: %w", err)
	}
	return doc, nil
})

// OpenAPI handles GET /v1/openapi
func OpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIDocument()
	if err != nil {
		slog.Error("openapi document unavailable", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, doc)
}

// OpenAPIYAML handles GET /v1/openapi.yaml
func OpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPISpec)
}
