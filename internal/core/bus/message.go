// If you are AI: This file defines MediaMessage, the pooled unit of demuxed media flowing through the bus.
// Messages are reference counted: the publisher holds one reference, every ring buffer slot holds one,
// and the last Release returns the message and its payload buffer to their pools.

package bus

import (
	"sync"
	"sync/atomic"
)

// MessageType mirrors the demuxer's sample kinds.
type MessageType uint8

const (
	// MessageTypeMediaFlags carries the FLV header flag byte in Flags.
	MessageTypeMediaFlags MessageType = iota + 1
	// MessageTypeVideoConfig carries an AVCDecoderConfigurationRecord.
	MessageTypeVideoConfig
	// MessageTypeVideo carries length-prefixed NAL units.
	MessageTypeVideo
	// MessageTypeAudioConfig carries an AudioSpecificConfig.
	MessageTypeAudioConfig
	// MessageTypeAudio carries one raw AAC frame.
	MessageTypeAudio
)

// MediaMessage represents a unit of media flowing through the bus.
// Subscribers must not modify a message or keep it after their handler returns.
type MediaMessage struct {
	Type      MessageType
	PTS       int64
	DTS       int64
	Flags     uint32
	Keyframe  bool
	Encrypted bool
	Payload   []byte // pooled; valid until the last Release

	refs atomic.Int32
}

var messagePool = sync.Pool{
	New: func() interface{} {
		return &MediaMessage{}
	},
}

// AcquireMessage returns a zeroed message holding one reference.
func AcquireMessage() *MediaMessage {
	msg := messagePool.Get().(*MediaMessage)
	msg.Type = 0
	msg.PTS = 0
	msg.DTS = 0
	msg.Flags = 0
	msg.Keyframe = false
	msg.Encrypted = false
	msg.Payload = nil
	msg.refs.Store(1)
	return msg
}

// Retain adds a reference.
func (m *MediaMessage) Retain() {
	m.refs.Add(1)
}

// Release drops a reference. The last one recycles the message.
func (m *MediaMessage) Release() {
	if m == nil {
		return
	}
	if m.refs.Add(-1) != 0 {
		return
	}
	ReleasePayload(m.Payload)
	m.Payload = nil
	messagePool.Put(m)
}

// Refs returns the current reference count.
func (m *MediaMessage) Refs() int32 {
	return m.refs.Load()
}

var payloadPool = sync.Pool{
	New: func() interface{} {
		// Typical AVC access unit
		buf := make([]byte, 0, 64*1024)
		return &buf
	},
}

// AcquirePayload returns an empty pooled buffer.
func AcquirePayload() []byte {
	bufPtr := payloadPool.Get().(*[]byte)
	return (*bufPtr)[:0]
}

// ReleasePayload returns a buffer to the pool. Oversized buffers are left to the GC.
func ReleasePayload(buf []byte) {
	if buf == nil || cap(buf) > 1024*1024 {
		return
	}
	buf = buf[:0]
	payloadPool.Put(&buf)
}

// SetPayload copies data into a pooled buffer. Demuxer payloads are borrowed,
// so every publish goes through here.
func (m *MediaMessage) SetPayload(data []byte) {
	if m.Payload != nil {
		ReleasePayload(m.Payload)
	}
	m.Payload = append(AcquirePayload(), data...)
}

// Clone creates a deep copy holding its own reference.
func (m *MediaMessage) Clone() *MediaMessage {
	clone := AcquireMessage()
	clone.Type = m.Type
	clone.PTS = m.PTS
	clone.DTS = m.DTS
	clone.Flags = m.Flags
	clone.Keyframe = m.Keyframe
	clone.Encrypted = m.Encrypted
	if len(m.Payload) > 0 {
		clone.SetPayload(m.Payload)
	}
	return clone
}

// String returns a human-readable name for the message type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeMediaFlags:
		return "media_flags"
	case MessageTypeVideoConfig:
		return "video_config"
	case MessageTypeVideo:
		return "video"
	case MessageTypeAudioConfig:
		return "audio_config"
	case MessageTypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}
