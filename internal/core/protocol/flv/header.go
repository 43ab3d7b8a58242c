// If you are AI: This file implements FLV file header generation.
// The writer side is used to synthesize streams for tests and test sources.

package flv

import (
	"encoding/binary"
)

// Header represents an FLV file header.
type Header struct {
	HasAudio bool
	HasVideo bool
	Extra    []byte // bytes appended after the 9 standard header bytes; counted in the data offset
}

// Flags returns the header flag byte.
func (h *Header) Flags() byte {
	flags := byte(0)
	if h.HasAudio {
		flags |= FileFlagAudio
	}
	if h.HasVideo {
		flags |= FileFlagVideo
	}
	return flags
}

// Bytes returns the FLV header followed by the zero "previous tag size" field.
func (h *Header) Bytes() []byte {
	out := make([]byte, FLVHeaderSize+len(h.Extra)+PreviousTagSizeLength)

	copy(out[0:3], FLVSignature)
	out[3] = FLVVersion
	out[4] = h.Flags()

	// Data offset points at the first previous-tag-size field
	binary.BigEndian.PutUint32(out[5:9], uint32(FLVHeaderSize+len(h.Extra)))
	copy(out[FLVHeaderSize:], h.Extra)

	return out
}

// NewHeader creates a new FLV header with specified audio/video flags.
func NewHeader(hasAudio, hasVideo bool) *Header {
	return &Header{
		HasAudio: hasAudio,
		HasVideo: hasVideo,
	}
}
