// If you are AI: This file implements a lock-free ring buffer for subscriber message delivery.
// Both positions run free and are masked only when indexing. The reader and a drop-oldest
// writer race for the oldest slot with compare-and-swap; whoever wins owns that reference.

package bus

import (
	"sync/atomic"
)

// BackpressureStrategy defines how the ring buffer handles overflow.
type BackpressureStrategy uint8

const (
	// BackpressureDropOldest drops the oldest message when buffer is full.
	BackpressureDropOldest BackpressureStrategy = iota
	// BackpressureDropNewest drops the newest message when buffer is full.
	BackpressureDropNewest
)

// RingBuffer is a bounded single-producer single-consumer queue of messages.
// Each stored message holds one reference that the buffer owns.
type RingBuffer struct {
	slots    []atomic.Pointer[MediaMessage]
	size     uint32
	mask     uint32
	writePos atomic.Uint32
	readPos  atomic.Uint32
	strategy BackpressureStrategy
	dropped  atomic.Uint64
}

// NewRingBuffer creates a ring buffer; capacity is rounded up to a power of 2.
func NewRingBuffer(capacity uint32, strategy BackpressureStrategy) *RingBuffer {
	size := uint32(1)
	for size < capacity {
		size <<= 1
	}
	return &RingBuffer{
		slots:    make([]atomic.Pointer[MediaMessage], size),
		size:     size,
		mask:     size - 1,
		strategy: strategy,
	}
}

// Write stores msg, transferring one reference to the buffer.
// It returns false if msg was refused (drop newest); the caller keeps that reference.
// Lock expectations: Single writer.
func (rb *RingBuffer) Write(msg *MediaMessage) bool {
	if msg == nil {
		return false
	}

	for {
		writePos := rb.writePos.Load()
		readPos := rb.readPos.Load()
		if writePos-readPos < rb.size {
			break
		}
		if rb.strategy == BackpressureDropNewest {
			rb.dropped.Add(1)
			return false
		}
		oldest := rb.slots[readPos&rb.mask].Load()
		if rb.readPos.CompareAndSwap(readPos, readPos+1) {
			rb.dropped.Add(1)
			oldest.Release()
			break
		}
	}

	writePos := rb.writePos.Load()
	rb.slots[writePos&rb.mask].Store(msg)
	rb.writePos.Store(writePos + 1)
	return true
}

// Read removes the oldest message. The caller receives the buffer's reference.
// Lock expectations: Single reader.
func (rb *RingBuffer) Read() (*MediaMessage, bool) {
	for {
		readPos := rb.readPos.Load()
		if readPos == rb.writePos.Load() {
			return nil, false
		}
		msg := rb.slots[readPos&rb.mask].Load()
		if rb.readPos.CompareAndSwap(readPos, readPos+1) {
			return msg, true
		}
	}
}

// Drain releases every buffered message.
func (rb *RingBuffer) Drain() int {
	n := 0
	for {
		msg, ok := rb.Read()
		if !ok {
			return n
		}
		msg.Release()
		n++
	}
}

// Dropped returns the number of messages dropped due to backpressure.
func (rb *RingBuffer) Dropped() uint64 {
	return rb.dropped.Load()
}

// Len returns the number of buffered messages.
func (rb *RingBuffer) Len() uint32 {
	readPos := rb.readPos.Load()
	n := rb.writePos.Load() - readPos
	return min(n, rb.size)
}

// Available returns the number of free slots in the buffer.
func (rb *RingBuffer) Available() uint32 {
	return rb.size - rb.Len()
}
