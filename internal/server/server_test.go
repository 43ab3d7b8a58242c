// If you are AI: This file contains unit tests for server routing and lifecycle.

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"flvstream/internal/config"
	"flvstream/internal/svc/health"
)

func TestRoutesAreMounted(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{HTTPPort: 8080}}
	srv := New(cfg, zerolog.Nop(), health.New())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Errorf("Expected JSON error body, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "method not allowed") {
		t.Errorf("Expected JSON error body, got %q", w.Body.String())
	}
}

// holdRoute blocks each request until its context ends, like a live viewer.
type holdRoute struct {
	started chan struct{}
}

func (h holdRoute) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/hold", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		h.started <- struct{}{}
		<-r.Context().Done()
	})
}

func TestServeCancelsInFlightRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	hold := holdRoute{started: make(chan struct{}, 1)}
	srv := New(&config.Config{}, zerolog.Nop(), hold)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/hold")
	if err != nil {
		cancel()
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	<-hold.started

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown with a viewer attached, got %v", err)
		}
	case <-time.After(shutdownTimeout / 2):
		t.Fatal("Serve waited on an in-flight request instead of cancelling it")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	// Port 0 lets the kernel pick a free port.
	cfg := &config.Config{Server: config.ServerConfig{HTTPPort: 0}}
	srv := New(cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSignalContextCancels(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Signal context should follow its parent")
	}
}
