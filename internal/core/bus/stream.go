// If you are AI: This file implements the Stream type: one demuxing publisher fanned out to many subscribers.
// The subscriber set is published as an immutable snapshot so Publish takes no lock for media frames.
// The latest configuration records are kept for viewers that attach later.

package bus

import (
	"sync"
	"sync/atomic"
)

// Stream is the bus endpoint for one configured source.
// Lock expectations: mu guards attach/detach; Publish reads the snapshot only.
type Stream struct {
	name string

	mu          sync.Mutex
	publisher   string // session id of the attached ingest connection
	subscribers map[uint64]*Subscriber
	nextSubID   uint64
	videoConfig *MediaMessage
	audioConfig *MediaMessage

	snapshot  atomic.Pointer[[]*Subscriber]
	published atomic.Uint64
}

// NewStream creates a stream for the named source.
func NewStream(name string) *Stream {
	s := &Stream{
		name:        name,
		subscribers: make(map[uint64]*Subscriber),
		nextSubID:   1,
	}
	s.snapshot.Store(&[]*Subscriber{})
	return s
}

// Name returns the source name.
func (s *Stream) Name() string {
	return s.name
}

// AttachPublisher attaches the ingest session. Returns false if another session holds the stream.
func (s *Stream) AttachPublisher(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.publisher != "" {
		return false
	}
	s.publisher = session
	return true
}

// DetachPublisher detaches session if it is the current publisher.
func (s *Stream) DetachPublisher(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publisher == session {
		s.publisher = ""
		s.videoConfig = swapConfig(s.videoConfig, nil)
		s.audioConfig = swapConfig(s.audioConfig, nil)
	}
}

// Publisher returns the attached session id, or "" if none.
func (s *Stream) Publisher() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publisher
}

// HasPublisher returns true if a publisher is currently attached.
func (s *Stream) HasPublisher() bool {
	return s.Publisher() != ""
}

// AttachSubscriber attaches a new subscriber with its own ring buffer.
func (s *Stream) AttachSubscriber(capacity uint32, strategy BackpressureStrategy) *Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	sub := NewSubscriber(id, capacity, strategy)
	s.subscribers[id] = sub
	s.refreshLocked()
	return sub
}

// DetachSubscriber removes a subscriber and releases whatever it had buffered.
func (s *Stream) DetachSubscriber(id uint64) {
	s.mu.Lock()
	sub, ok := s.subscribers[id]
	if ok {
		delete(s.subscribers, id)
		s.refreshLocked()
	}
	s.mu.Unlock()

	if ok {
		sub.Buffer().Drain()
	}
}

func (s *Stream) refreshLocked() {
	subs := make([]*Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.snapshot.Store(&subs)
}

// Publish delivers msg to every subscriber. Each delivery takes its own
// reference; the caller keeps (and must release) the reference it passed in.
// Allocation: None, except a clone for configuration records.
func (s *Stream) Publish(msg *MediaMessage) {
	if msg == nil {
		return
	}
	s.published.Add(1)
	if msg.Type == MessageTypeVideoConfig || msg.Type == MessageTypeAudioConfig {
		s.keepConfig(msg)
	}
	for _, sub := range *s.snapshot.Load() {
		msg.Retain()
		if !sub.Buffer().Write(msg) {
			msg.Release()
		}
	}
}

func (s *Stream) keepConfig(msg *MediaMessage) {
	clone := msg.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.Type == MessageTypeVideoConfig {
		s.videoConfig = swapConfig(s.videoConfig, clone)
	} else {
		s.audioConfig = swapConfig(s.audioConfig, clone)
	}
}

// swapConfig releases old and returns next.
func swapConfig(old, next *MediaMessage) *MediaMessage {
	if old != nil {
		old.Release()
	}
	return next
}

// Configs returns the latest video and audio configuration records, each
// with a reference the caller must release.
func (s *Stream) Configs() []*MediaMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*MediaMessage
	for _, cfg := range []*MediaMessage{s.videoConfig, s.audioConfig} {
		if cfg != nil {
			cfg.Retain()
			out = append(out, cfg)
		}
	}
	return out
}

// Published returns the number of messages published so far.
func (s *Stream) Published() uint64 {
	return s.published.Load()
}

// SubscriberCount returns the number of active subscribers.
func (s *Stream) SubscriberCount() int {
	return len(*s.snapshot.Load())
}

// IsEmpty returns true if the stream has no publisher and no subscribers.
func (s *Stream) IsEmpty() bool {
	return !s.HasPublisher() && s.SubscriberCount() == 0
}
