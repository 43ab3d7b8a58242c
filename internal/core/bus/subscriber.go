// If you are AI: This file defines Subscriber, a ring buffer plus the handler that drains it.

package bus

// Subscriber is one consumer of a stream.
// Each subscriber has its own ring buffer so a slow consumer never blocks the publisher.
type Subscriber struct {
	id        uint64
	buffer    *RingBuffer
	onMessage func(*MediaMessage)
}

// NewSubscriber creates a subscriber with the given buffer capacity and strategy.
func NewSubscriber(id uint64, capacity uint32, strategy BackpressureStrategy) *Subscriber {
	return &Subscriber{
		id:     id,
		buffer: NewRingBuffer(capacity, strategy),
	}
}

// ID returns the subscriber identifier within its stream.
func (s *Subscriber) ID() uint64 {
	return s.id
}

// Buffer returns the subscriber's ring buffer.
func (s *Subscriber) Buffer() *RingBuffer {
	return s.buffer
}

// SetMessageHandler sets the callback used by Process.
// The handler must not keep the message after returning; Clone it instead.
func (s *Subscriber) SetMessageHandler(handler func(*MediaMessage)) {
	s.onMessage = handler
}

// Process hands up to maxMessages buffered messages to the handler and
// releases each one afterwards. Returns the number processed.
func (s *Subscriber) Process(maxMessages int) int {
	processed := 0
	for processed < maxMessages {
		msg, ok := s.buffer.Read()
		if !ok {
			break
		}
		if s.onMessage != nil {
			s.onMessage(msg)
		}
		msg.Release()
		processed++
	}
	return processed
}

// Dropped returns the number of messages dropped due to backpressure.
func (s *Subscriber) Dropped() uint64 {
	return s.buffer.Dropped()
}
