// If you are AI: This file contains unit tests for HTTP-FLV handler.
// Tests verify lookup failures and that a viewer decodes what the source publishes.

package httpflv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
	"flvstream/internal/core/protocol/flv"
)

func newRouter(registry *bus.Registry) *mux.Router {
	r := mux.NewRouter()
	NewService(registry, 64, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func publish(stream *bus.Stream, typ bus.MessageType, keyframe bool, payload string) {
	msg := bus.AcquireMessage()
	msg.Type = typ
	msg.Keyframe = keyframe
	msg.SetPayload([]byte(payload))
	stream.Publish(msg)
	msg.Release()
}

func TestHTTPFLVHandlerNotFound(t *testing.T) {
	registry := bus.NewRegistry()
	registry.GetOrCreate("idle")
	r := newRouter(registry)

	for _, target := range []string{"/live/nonexistent.flv", "/live/idle.flv"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", target, w.Code)
		}
	}
}

func TestHTTPFLVHandlerStreams(t *testing.T) {
	registry := bus.NewRegistry()
	stream, _ := registry.GetOrCreate("cam1")
	stream.AttachPublisher("session-1")

	server := httptest.NewServer(newRouter(registry))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/live/cam1.flv", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "video/x-flv" {
		t.Errorf("Expected Content-Type video/x-flv, got %s", ct)
	}

	publish(stream, bus.MessageTypeVideoConfig, false, "avcc")
	publish(stream, bus.MessageTypeVideo, true, "key")

	var kinds []flv.SampleKind
	d := flv.NewDemuxer(flv.HandlerFunc(func(s flv.Sample) {
		kinds = append(kinds, s.Kind)
	}))
	buf := make([]byte, 4096)
	for len(kinds) < 3 {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if feedErr := d.Feed(buf[:n]); feedErr != nil {
				t.Fatalf("Response is not valid FLV: %v", feedErr)
			}
		}
		if err != nil {
			t.Fatalf("Read failed after %v: %v", kinds, err)
		}
	}

	want := []flv.SampleKind{flv.SampleMediaFlags, flv.SampleVideoParameters, flv.SampleVideoPacket}
	for i, kind := range want {
		if kinds[i] != kind {
			t.Errorf("Sample %d: expected %s, got %s", i, kind, kinds[i])
		}
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for stream.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Viewer was not detached after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
