// If you are AI: This file implements HTTP API handlers.
// Handlers read snapshots and enqueue controls; none of them block on media paths.

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/gorilla/mux"

	"flvstream/internal/svc/ingest"
	"flvstream/internal/svc/inspect"
)

// ServerResponse represents the /api/server response.
type ServerResponse struct {
	Version         string   `json:"version"`
	Uptime          int64    `json:"uptime"` // seconds
	GoVersion       string   `json:"go_version"`
	EnabledServices []string `json:"enabled_services"`
}

// StreamInfo represents one bus stream.
type StreamInfo struct {
	Name            string `json:"name"`
	Publisher       string `json:"publisher,omitempty"`
	SubscriberCount int    `json:"subscriber_count"`
	Published       uint64 `json:"published"`
}

// StreamsResponse represents the /api/streams response.
type StreamsResponse struct {
	Streams []StreamInfo `json:"streams"`
}

// SourceInfo combines ingest and inspected state for one source.
type SourceInfo struct {
	ingest.Info
	Media *inspect.MediaInfo `json:"media,omitempty"`
}

// SourcesResponse represents the /api/sources response.
type SourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleServer handles GET /api/server.
func (s *Service) handleServer(w http.ResponseWriter, r *http.Request) {
	services := []string{"ingest", "api"}
	if s.inspector != nil {
		services = append(services, "inspect")
	}

	s.writeJSON(w, http.StatusOK, ServerResponse{
		Version:         version(),
		Uptime:          getCurrentTime() - s.startTime,
		GoVersion:       runtime.Version(),
		EnabledServices: services,
	})
}

// handleStreams handles GET /api/streams.
func (s *Service) handleStreams(w http.ResponseWriter, r *http.Request) {
	names := s.registry.List()
	streams := make([]StreamInfo, 0, len(names))
	for _, name := range names {
		stream := s.registry.Get(name)
		if stream == nil {
			continue
		}
		streams = append(streams, StreamInfo{
			Name:            name,
			Publisher:       stream.Publisher(),
			SubscriberCount: stream.SubscriberCount(),
			Published:       stream.Published(),
		})
	}
	s.writeJSON(w, http.StatusOK, StreamsResponse{Streams: streams})
}

// handleSources handles GET /api/sources.
func (s *Service) handleSources(w http.ResponseWriter, r *http.Request) {
	infos := s.sources.Infos()
	sources := make([]SourceInfo, 0, len(infos))
	for _, info := range infos {
		sources = append(sources, s.sourceInfo(info))
	}
	s.writeJSON(w, http.StatusOK, SourcesResponse{Sources: sources})
}

// handleSource handles GET /api/sources/{name}.
func (s *Service) handleSource(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	for _, info := range s.sources.Infos() {
		if info.Name == name {
			s.writeJSON(w, http.StatusOK, s.sourceInfo(info))
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "unknown source "+name)
}

// handleSeek handles POST /api/sources/{name}/seek.
func (s *Service) handleSeek(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.sources.SeekToNextKeyframe(name); err != nil {
		s.writeControlError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "seek queued"})
}

// handleSkip handles POST /api/sources/{name}/skip?enabled=true|false.
func (s *Service) handleSkip(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "enabled must be true or false")
		return
	}
	if err := s.sources.SetSkipFrames(name, enabled); err != nil {
		s.writeControlError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]any{"status": "skip queued", "enabled": enabled})
}

func (s *Service) sourceInfo(info ingest.Info) SourceInfo {
	out := SourceInfo{Info: info}
	if s.inspector != nil {
		if media, ok := s.inspector.Info(info.Name); ok {
			out.Media = &media
		}
	}
	return out
}

func (s *Service) writeControlError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnknownSource):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ingest.ErrControlQueueFull):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ingest.ErrSourceStopped):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response.
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
