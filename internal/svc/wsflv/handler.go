// If you are AI: This file implements the WebSocket handler for FLV stream requests.
// Handles GET /ws/live/{name}; the header and every tag travel as one binary frame each.

package wsflv

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
	"flvstream/internal/svc/egress"
)

// Handler handles WebSocket-FLV requests.
type Handler struct {
	registry *bus.Registry
	buffer   uint32
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler creates a new WebSocket-FLV handler.
func NewHandler(registry *bus.Registry, buffer uint32, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		buffer:   buffer,
		upgrader: websocket.Upgrader{
			// Players are served from other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeHTTP upgrades the connection and streams the named source.
// Endpoint: GET /ws/live/{name}
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	stream := h.registry.Get(name)
	if stream == nil || !stream.HasPublisher() {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade failed, response already sent
		return
	}
	defer conn.Close()

	// A hijacked connection does not cancel the request context on close, so
	// a reader watches for the close frame. Server shutdown still cancels it.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sess := egress.Attach(stream, h.buffer, func(b []byte) error {
		return conn.WriteMessage(websocket.BinaryMessage, b)
	})
	defer sess.Detach()

	if err := sess.WriteHeader(); err != nil {
		return
	}

	log := h.log.With().Str("stream", name).Str("remote", r.RemoteAddr).Logger()
	log.Debug().Msg("websocket viewer attached")

	err = sess.Run(ctx)
	log.Debug().Err(err).
		Uint64("tags", sess.Tags()).
		Uint64("dropped", sess.Dropped()).
		Msg("websocket viewer detached")
}
