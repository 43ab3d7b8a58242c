// If you are AI: This file provides HTTP-FLV service integration.
// The service is integrated into the main HTTP server.

package httpflv

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
)

// Service provides HTTP-FLV streaming functionality.
type Service struct {
	handler *Handler
}

// NewService creates a new HTTP-FLV service.
func NewService(registry *bus.Registry, buffer uint32, log zerolog.Logger) *Service {
	return &Service{
		handler: NewHandler(registry, buffer, log),
	}
}

// RegisterRoutes registers HTTP-FLV routes on the provided router.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.Handle("/live/{name}.flv", s.handler).Methods(http.MethodGet)
}
