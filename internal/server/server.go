// package server contains middleware & handlers for the favorites ranking web service
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jihohub/track-list-now/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// The service stack applies request logging, panic recovery, and rate limiting.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the ranking service.
// Implementations handle specific endpoints (favorites, rankings, health).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps an error to its HTTP status and writes a JSON error body.
//
// Validation failures (bad input, unknown category, bad argument) map to 400.
// Everything else, including transaction failures, maps to 500; the client
// resubmits the full payload after a 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidCategory),
		errors.Is(err, shared.ErrInvalidArgument):
		status = http.StatusBadRequest
	}

	respondJSON(w, status, errorBody{Error: err.Error()})
}
