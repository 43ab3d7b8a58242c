// If you are AI: This file implements the HTTP handler for FLV stream requests.
// Handles GET /live/{name}.flv and re-serves a demuxed stream as FLV to one viewer.

package httpflv

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
	"flvstream/internal/svc/egress"
)

// Handler handles HTTP-FLV requests.
type Handler struct {
	registry *bus.Registry
	buffer   uint32
	log      zerolog.Logger
}

// NewHandler creates a new HTTP-FLV handler.
// buffer is the ring buffer size of each viewer's bus subscriber.
func NewHandler(registry *bus.Registry, buffer uint32, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		buffer:   buffer,
		log:      log,
	}
}

// ServeHTTP streams the named source until the client disconnects.
// Endpoint: GET /live/{name}.flv
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	stream := h.registry.Get(name)
	if stream == nil || !stream.HasPublisher() {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "video/x-flv")
	w.Header().Set("Cache-Control", "no-cache")

	sess := egress.Attach(stream, h.buffer, func(b []byte) error {
		if _, err := w.Write(b); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	defer sess.Detach()

	if err := sess.WriteHeader(); err != nil {
		return
	}

	log := h.log.With().Str("stream", name).Str("remote", r.RemoteAddr).Logger()
	log.Debug().Msg("viewer attached")

	err := sess.Run(r.Context())
	log.Debug().Err(err).
		Uint64("tags", sess.Tags()).
		Uint64("dropped", sess.Dropped()).
		Msg("viewer detached")
}
