// If you are AI: This file provides HTTP API service integration.
// The API exposes source state and routes controls to ingest tasks without touching demuxers directly.

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"flvstream/internal/core/bus"
	"flvstream/internal/svc/ingest"
	"flvstream/internal/svc/inspect"
)

// Service provides HTTP API functionality.
type Service struct {
	registry  *bus.Registry
	sources   SourceManager
	inspector MediaInspector
	startTime int64
}

// SourceManager is the ingest surface the API needs.
type SourceManager interface {
	Infos() []ingest.Info
	SeekToNextKeyframe(name string) error
	SetSkipFrames(name string, enabled bool) error
}

// MediaInspector reports inspected media state per source.
type MediaInspector interface {
	Info(name string) (inspect.MediaInfo, bool)
}

// NewService creates a new API service. inspector may be nil.
func NewService(registry *bus.Registry, sources SourceManager, inspector MediaInspector) *Service {
	return &Service{
		registry:  registry,
		sources:   sources,
		inspector: inspector,
		startTime: getCurrentTime(),
	}
}

// RegisterRoutes registers API routes on the provided router.
func (s *Service) RegisterRoutes(r *mux.Router) {
	// Full paths on the root router: a PathPrefix subrouter turns a method
	// mismatch into 404.
	r.HandleFunc("/api/server", s.handleServer).Methods(http.MethodGet)
	r.HandleFunc("/api/streams", s.handleStreams).Methods(http.MethodGet)
	r.HandleFunc("/api/sources", s.handleSources).Methods(http.MethodGet)
	r.HandleFunc("/api/sources/{name}", s.handleSource).Methods(http.MethodGet)
	r.HandleFunc("/api/sources/{name}/seek", s.handleSeek).Methods(http.MethodPost)
	r.HandleFunc("/api/sources/{name}/skip", s.handleSkip).Methods(http.MethodPost)
}

// getCurrentTime returns current Unix timestamp.
// Extracted for testability.
func getCurrentTime() int64 {
	return time.Now().Unix()
}
