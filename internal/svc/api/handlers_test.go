// If you are AI: This file contains unit tests for API handlers.
// Tests route requests through the router and verify JSON responses and error mapping.

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"flvstream/internal/core/bus"
	"flvstream/internal/svc/ingest"
	"flvstream/internal/svc/inspect"
)

type fakeSources struct {
	infos    []ingest.Info
	seeks    []string
	skips    map[string]bool
	controls error
}

func (f *fakeSources) Infos() []ingest.Info {
	return f.infos
}

func (f *fakeSources) known(name string) error {
	for _, info := range f.infos {
		if info.Name == name {
			return f.controls
		}
	}
	return fmt.Errorf("%w: %s", ingest.ErrUnknownSource, name)
}

func (f *fakeSources) SeekToNextKeyframe(name string) error {
	if err := f.known(name); err != nil {
		return err
	}
	f.seeks = append(f.seeks, name)
	return nil
}

func (f *fakeSources) SetSkipFrames(name string, enabled bool) error {
	if err := f.known(name); err != nil {
		return err
	}
	f.skips[name] = enabled
	return nil
}

type fakeInspector map[string]inspect.MediaInfo

func (f fakeInspector) Info(name string) (inspect.MediaInfo, bool) {
	info, ok := f[name]
	return info, ok
}

func newTestRouter() (*mux.Router, *fakeSources, *bus.Registry) {
	registry := bus.NewRegistry()
	sources := &fakeSources{
		infos: []ingest.Info{
			{Name: "cam1", URL: "http://host/cam1.flv", Running: true, FrameCount: 42},
			{Name: "archive", URL: "/media/a.flv"},
		},
		skips: make(map[string]bool),
	}
	inspector := fakeInspector{"cam1": {HasVideo: true, Keyframes: 3}}

	r := mux.NewRouter()
	NewService(registry, sources, inspector).RegisterRoutes(r)
	return r, sources, registry
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHandleServer(t *testing.T) {
	r, _, _ := newTestRouter()
	w := serve(r, http.MethodGet, "/api/server")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response ServerResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Version == "" || response.GoVersion == "" {
		t.Error("Version fields should not be empty")
	}
	if len(response.EnabledServices) != 3 {
		t.Errorf("Expected 3 enabled services, got %v", response.EnabledServices)
	}
}

func TestHandleStreams(t *testing.T) {
	r, _, registry := newTestRouter()
	stream, _ := registry.GetOrCreate("cam1")
	stream.AttachPublisher("session-1")
	stream.AttachSubscriber(8, bus.BackpressureDropOldest)

	w := serve(r, http.MethodGet, "/api/streams")
	var response StreamsResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Streams) != 1 {
		t.Fatalf("Expected 1 stream, got %d", len(response.Streams))
	}
	got := response.Streams[0]
	if got.Name != "cam1" || got.Publisher != "session-1" || got.SubscriberCount != 1 {
		t.Errorf("Unexpected stream info %+v", got)
	}
}

func TestHandleSources(t *testing.T) {
	r, _, _ := newTestRouter()
	w := serve(r, http.MethodGet, "/api/sources")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response SourcesResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(response.Sources))
	}
	cam := response.Sources[0]
	if cam.Name != "cam1" || cam.FrameCount != 42 || !cam.Running {
		t.Errorf("Ingest fields not flattened: %+v", cam)
	}
	if cam.Media == nil || cam.Media.Keyframes != 3 {
		t.Errorf("Expected media info for cam1, got %+v", cam.Media)
	}
	if response.Sources[1].Media != nil {
		t.Error("Sources without inspection should omit media")
	}
}

func TestHandleSource(t *testing.T) {
	r, _, _ := newTestRouter()

	if w := serve(r, http.MethodGet, "/api/sources/archive"); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/api/sources/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil || response.Error == "" {
		t.Errorf("Expected JSON error body, got %q", w.Body.String())
	}
}

func TestControls(t *testing.T) {
	r, sources, _ := newTestRouter()

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"seek", http.MethodPost, "/api/sources/cam1/seek", http.StatusAccepted},
		{"seek unknown", http.MethodPost, "/api/sources/nope/seek", http.StatusNotFound},
		{"seek wrong method", http.MethodGet, "/api/sources/cam1/seek", http.StatusMethodNotAllowed},
		{"server wrong method", http.MethodPost, "/api/server", http.StatusMethodNotAllowed},
		{"skip on", http.MethodPost, "/api/sources/cam1/skip?enabled=true", http.StatusAccepted},
		{"skip bad value", http.MethodPost, "/api/sources/cam1/skip?enabled=maybe", http.StatusBadRequest},
		{"skip unknown", http.MethodPost, "/api/sources/nope/skip?enabled=false", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := serve(r, tt.method, tt.target); w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	if len(sources.seeks) != 1 || sources.seeks[0] != "cam1" {
		t.Errorf("Expected one seek routed to cam1, got %v", sources.seeks)
	}
	if enabled, ok := sources.skips["cam1"]; !ok || !enabled {
		t.Errorf("Expected skip enabled for cam1, got %v", sources.skips)
	}
}

func TestControlErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"queue full", ingest.ErrControlQueueFull, http.StatusServiceUnavailable},
		{"source stopped", ingest.ErrSourceStopped, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, sources, _ := newTestRouter()
			sources.controls = tt.err

			if w := serve(r, http.MethodPost, "/api/sources/cam1/seek"); w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}
