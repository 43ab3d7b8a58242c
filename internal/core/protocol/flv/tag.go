// If you are AI: This file implements FLV tag encoding.
// Format: tag type (1) + data size (3) + timestamp lower (3) + timestamp upper (1) + stream ID (3) + data (N) + previous tag size (4)

package flv

import (
	"encoding/binary"
)

// Tag represents an FLV tag (audio, video, script or any other kind).
type Tag struct {
	Type      byte
	Encrypted bool
	Timestamp uint32
	StreamID  uint32
	Data      []byte

	// PreviousSize overrides the trailing size field when non-zero.
	PreviousSize uint32
}

// Bytes encodes the tag including its trailing previous-tag-size field.
// Allocation: Creates new slice for complete tag, copies data.
func (t *Tag) Bytes() []byte {
	dataSize := uint32(len(t.Data))
	result := make([]byte, TagHeaderSize+len(t.Data)+PreviousTagSizeLength)

	result[0] = t.Type & tagTypeKindMask
	if t.Encrypted {
		result[0] |= tagTypeEncrypted
	}

	result[1] = byte(dataSize >> 16)
	result[2] = byte(dataSize >> 8)
	result[3] = byte(dataSize)

	// Lower 24 bits first, extension byte carries the upper 8 bits
	result[4] = byte(t.Timestamp >> 16)
	result[5] = byte(t.Timestamp >> 8)
	result[6] = byte(t.Timestamp)
	result[7] = byte(t.Timestamp >> 24)

	result[8] = byte(t.StreamID >> 16)
	result[9] = byte(t.StreamID >> 8)
	result[10] = byte(t.StreamID)

	copy(result[TagHeaderSize:], t.Data)

	prevSize := t.PreviousSize
	if prevSize == 0 {
		prevSize = TagHeaderSize + dataSize
	}
	binary.BigEndian.PutUint32(result[TagHeaderSize+len(t.Data):], prevSize)

	return result
}

// NewTag creates a new FLV tag from type, timestamp, and data.
func NewTag(tagType byte, timestamp uint32, data []byte) *Tag {
	return &Tag{
		Type:      tagType,
		Timestamp: timestamp,
		Data:      data,
	}
}
