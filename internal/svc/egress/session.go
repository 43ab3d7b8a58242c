// If you are AI: This file bridges one bus subscriber to an FLV byte sink.
// Sinks are HTTP responses or WebSocket connections; each write carries a header or one whole tag.

package egress

import (
	"context"
	"time"

	"flvstream/internal/core/bus"
	"flvstream/internal/core/protocol/flv"
)

const (
	// PollInterval is how long a session sleeps when its buffer is empty.
	PollInterval = 10 * time.Millisecond
	// batchSize bounds the messages handled per drain.
	batchSize = 64
)

// WriteFunc writes one header or tag to the viewer.
type WriteFunc func(b []byte) error

// Session forwards one stream to one viewer.
// Backpressure strategy: DropOldest, so a slow viewer loses frames instead of blocking ingest.
type Session struct {
	stream *bus.Stream
	sub    *bus.Subscriber
	write  WriteFunc
	remux  Remuxer
	err    error
	tags   uint64
}

// Attach subscribes a new session to stream.
func Attach(stream *bus.Stream, buffer uint32, write WriteFunc) *Session {
	s := &Session{
		stream: stream,
		sub:    stream.AttachSubscriber(buffer, bus.BackpressureDropOldest),
		write:  write,
	}
	s.sub.SetMessageHandler(s.forward)
	return s
}

// WriteHeader writes the FLV file header followed by the stream's latest
// configuration records. Both media flags are set since the stream's header
// may have been published before the viewer arrived.
func (s *Session) WriteHeader() error {
	if err := s.write(flv.NewHeader(true, true).Bytes()); err != nil {
		return err
	}
	for _, cfg := range s.stream.Configs() {
		s.forward(cfg)
		cfg.Release()
	}
	return s.err
}

// Run forwards messages until ctx is done, a write fails, or the publisher
// has detached and the buffer is drained. The last two cases without an
// error return nil.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		live := s.stream.HasPublisher()
		n := s.sub.Process(batchSize)
		if s.err != nil {
			return s.err
		}
		if n == batchSize && ctx.Err() == nil {
			continue
		}
		if !live {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Detach removes the session's subscriber from the stream.
func (s *Session) Detach() {
	s.stream.DetachSubscriber(s.sub.ID())
}

// Tags returns the number of tags written.
func (s *Session) Tags() uint64 {
	return s.tags
}

// Dropped returns the number of messages lost to backpressure.
func (s *Session) Dropped() uint64 {
	return s.sub.Dropped()
}

// forward is the subscriber handler. After a write error it discards the rest.
func (s *Session) forward(msg *bus.MediaMessage) {
	if s.err != nil {
		return
	}
	tag := s.remux.Tag(msg)
	if tag == nil {
		return
	}
	if err := s.write(tag.Bytes()); err != nil {
		s.err = err
		return
	}
	s.tags++
}
