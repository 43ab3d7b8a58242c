// If you are AI: This file implements the health check endpoint for monitoring and integration tests.

package health

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Service provides health check functionality.
type Service struct{}

// New creates a new health service instance.
func New() *Service {
	return &Service{}
}

// RegisterRoutes adds health check routes to the provided router.
// /healthz answers GET and HEAD with 200 OK.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
}

// handleHealth responds to health check requests.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
